package msize

import "fmt"

// A Unit identifies a scale for formatting byte counts.
type Unit int

// Constants defining the recognized formatting units.
const (
	Byte Unit = iota
	Kilobyte
	Megabyte
	Gigabyte
)

var unitStr = [...]string{
	Byte:     "B",
	Kilobyte: "KB",
	Megabyte: "MB",
	Gigabyte: "GB",
}

func (u Unit) String() string {
	if u < Byte || int(u) >= len(unitStr) {
		return unitStr[Byte]
	}
	return unitStr[u]
}

// FormatSize renders a byte count at the given unit. Bytes format as an
// integer ("1024 B"); larger units divide by the matching power of 1024
// and keep two decimal places ("1.00 KB"). An unrecognized unit formats
// as bytes.
func FormatSize(size int64, unit Unit) string {
	switch unit {
	case Kilobyte, Megabyte, Gigabyte:
		div := float64(int64(1) << (10 * unit))
		return fmt.Sprintf("%.2f %s", float64(size)/div, unit)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
