package msize

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"bitbucket.org/creachadair/stringset"
)

// A Strategy recognizes one shape of value and computes its estimated cost.
// Strategies are consulted in order and the first match wins, so a chain
// must be ordered from most-specific to least-specific.
type Strategy interface {
	// Supports reports whether the strategy applies to v. It must be
	// deterministic and free of side effects.
	Supports(v reflect.Value) bool

	// SizeOf computes the cost of v in bytes. Child values are costed by
	// calling back into est.ValueSize, never by recursing locally, so that
	// cycle tracking is shared across the whole traversal.
	SizeOf(v reflect.Value, est *Estimator) int64
}

// A DetailStrategy is a Strategy that can also report a labeled breakdown
// of its cost. Strategies without this method fall back to a generic
// structured-object breakdown in detailed mode.
type DetailStrategy interface {
	Strategy
	DetailedSizeOf(v reflect.Value, est *Estimator) *Report
}

// DefaultStrategies returns a fresh copy of the built-in strategy chain,
// ordered most-specific first with the structured-object catch-all last.
func DefaultStrategies() []Strategy {
	return []Strategy{
		absentStrategy{},
		nullStrategy{},
		boolStrategy{},
		numberStrategy{},
		stringStrategy{},
		bigIntStrategy{},
		tokenStrategy{},
		funcStrategy{},
		binaryStrategy{},
		dateStrategy{},
		regexpStrategy{},
		weakRefStrategy{},
		setStrategy{},
		urlStrategy{},
		mapStrategy{},
		arrayStrategy{},
		indirectStrategy{},
		objectStrategy{},
	}
}

var (
	bigIntType    = reflect.TypeOf(big.Int{})
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
	timeType      = reflect.TypeOf(time.Time{})
	regexpPtrType = reflect.TypeOf((*regexp.Regexp)(nil))
	bufferPtrType = reflect.TypeOf((*bytes.Buffer)(nil))
	readerPtrType = reflect.TypeOf((*bytes.Reader)(nil))
	stringSetType = reflect.TypeOf(stringset.Set(nil))
	tokenType     = reflect.TypeOf(Token{})
	stringerType  = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	describerType = reflect.TypeOf((*tokenDescriber)(nil)).Elem()
)

// charCount reports the number of characters in s, the unit multiplied by
// CharSize when costing string data.
func charCount(s string) int64 { return int64(utf8.RuneCountInString(s)) }

// absentStrategy matches the absence of a value: an invalid reflect.Value,
// as produced by reflecting an untyped nil.
type absentStrategy struct{}

func (absentStrategy) Supports(v reflect.Value) bool { return !v.IsValid() }

func (absentStrategy) SizeOf(reflect.Value, *Estimator) int64 { return AbsentSize }

func (absentStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("undefined", AbsentSize)
}

// nullStrategy matches typed nils: nil pointers, maps, slices, functions,
// interfaces, and channels.
type nullStrategy struct{}

func (nullStrategy) Supports(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (nullStrategy) SizeOf(reflect.Value, *Estimator) int64 { return NullSize }

func (nullStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("null", NullSize)
}

type boolStrategy struct{}

func (boolStrategy) Supports(v reflect.Value) bool { return v.Kind() == reflect.Bool }

func (boolStrategy) SizeOf(reflect.Value, *Estimator) int64 { return BoolSize }

func (boolStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("boolean", BoolSize)
}

// numberStrategy matches every numeric kind. The cost is a fixed constant,
// not proportional to width, magnitude, or precision.
type numberStrategy struct{}

func (numberStrategy) Supports(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func (numberStrategy) SizeOf(reflect.Value, *Estimator) int64 { return NumberSize }

func (numberStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("number", NumberSize)
}

// stringStrategy charges string data per character, not per byte.
type stringStrategy struct{}

func (stringStrategy) Supports(v reflect.Value) bool { return v.Kind() == reflect.String }

func (stringStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	return charCount(v.String()) * CharSize
}

func (s stringStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("string", s.SizeOf(v, est))
}

type bigIntStrategy struct{}

func (bigIntStrategy) Supports(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	t := v.Type()
	return t == bigIntType || t == bigIntPtrType
}

func (bigIntStrategy) SizeOf(reflect.Value, *Estimator) int64 { return BigIntSize }

func (bigIntStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("bigint", BigIntSize)
}

// tokenDescriber is implemented by values that should be sized as symbols:
// unique marker values whose only measurable content is a description.
type tokenDescriber interface {
	TokenDescription() string
}

// tokenStrategy matches Token and anything implementing tokenDescriber.
// A token with an empty description costs nothing.
type tokenStrategy struct{}

func (tokenStrategy) Supports(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	return v.Type() == tokenType || (v.CanInterface() && v.Type().Implements(describerType))
}

func (tokenStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	if !v.CanInterface() {
		return 0
	}
	return charCount(v.Interface().(tokenDescriber).TokenDescription()) * CharSize
}

func (s tokenStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("symbol", s.SizeOf(v, est))
}

// funcStrategy matches callable values. Go functions expose no source text
// or enumerable properties, so the measurable content is the symbolic name
// recorded by the runtime.
type funcStrategy struct{}

func (funcStrategy) Supports(v reflect.Value) bool { return v.Kind() == reflect.Func }

func (funcStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	size := int64(FuncOverhead)
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		size += charCount(fn.Name()) * CharSize
	}
	return size
}

func (s funcStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("function", s.SizeOf(v, est))
}

// binaryStrategy matches byte-addressed data: slices and arrays of
// fixed-width numerics, growable byte buffers, and read-only buffer
// windows. These report their exact byte length with no unit multiplier.
type binaryStrategy struct{}

func (binaryStrategy) Supports(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return isFixedWidth(v.Type().Elem())
	case reflect.Pointer:
		t := v.Type()
		return t == bufferPtrType || t == readerPtrType
	}
	return false
}

func (binaryStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return int64(v.Len()) * int64(v.Type().Elem().Size())
	}
	if !v.CanInterface() {
		return 0
	}
	if v.Type() == bufferPtrType {
		return int64(v.Interface().(*bytes.Buffer).Len())
	}
	return int64(v.Interface().(*bytes.Reader).Len())
}

func (s binaryStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("binary", s.SizeOf(v, est))
}

func isFixedWidth(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// dateStrategy matches timestamps at a fixed cost, independent of the
// internal representation.
type dateStrategy struct{}

func (dateStrategy) Supports(v reflect.Value) bool {
	return v.IsValid() && v.Type() == timeType
}

func (dateStrategy) SizeOf(reflect.Value, *Estimator) int64 { return DateSize }

func (dateStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("date", DateSize)
}

// regexpStrategy matches compiled regular expressions. The cost covers the
// base overhead, the pattern text, and one numeric slot for the match
// position. Go patterns carry their flags inline, so there is no separate
// flags field to charge.
type regexpStrategy struct{}

func (regexpStrategy) Supports(v reflect.Value) bool {
	return v.IsValid() && v.Type() == regexpPtrType
}

func (regexpStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	size := int64(RegexpOverhead + NumberSize)
	if v.CanInterface() {
		size += charCount(v.Interface().(*regexp.Regexp).String()) * CharSize
	}
	return size
}

func (s regexpStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("regexp", s.SizeOf(v, est))
}

// weakRefStrategy matches weak.Pointer values. The referent may be
// reclaimed at any moment, so it is never followed; the cost is a
// reference slot plus a fixed overhead.
type weakRefStrategy struct{}

func (weakRefStrategy) Supports(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	t := v.Type()
	return t.PkgPath() == "weak" && strings.HasPrefix(t.Name(), "Pointer[")
}

func (weakRefStrategy) SizeOf(reflect.Value, *Estimator) int64 {
	return RefSize + WeakRefOverhead
}

func (weakRefStrategy) DetailedSizeOf(reflect.Value, *Estimator) *Report {
	return leaf("weakref", RefSize+WeakRefOverhead)
}

// setStrategy matches the set containers used in this codebase:
// mapset.Set[T] and stringset.Set. Both are map-backed, so elements are
// enumerated as keys.
type setStrategy struct{}

func (setStrategy) Supports(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	return v.Type() == stringSetType || isMapSet(v.Type())
}

func (setStrategy) SizeOf(v reflect.Value, est *Estimator) int64 {
	size := int64(SetOverhead)
	for it := v.MapRange(); it.Next(); {
		size += est.ValueSize(it.Key())
	}
	return size
}

func (setStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	r := leaf("set", SetOverhead)
	pos := 0
	for it := v.MapRange(); it.Next(); {
		c := est.detailValue(it.Key())
		r.addChild(strconv.Itoa(pos), c)
		r.Size += c.Size
		pos++
	}
	return r
}

func isMapSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map &&
		t.PkgPath() == "github.com/creachadair/mds/mapset" &&
		strings.HasPrefix(t.Name(), "Set[")
}

// urlStrategy matches values that stringify to an http or https address,
// including *url.URL. The cost is the object base plus the address text.
type urlStrategy struct{}

func (urlStrategy) Supports(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() || !v.Type().Implements(stringerType) {
		return false
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	s := v.Interface().(fmt.Stringer).String()
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (urlStrategy) SizeOf(v reflect.Value, _ *Estimator) int64 {
	s := v.Interface().(fmt.Stringer).String()
	return ObjectOverhead + charCount(s)*CharSize
}

func (s urlStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return leaf("url", s.SizeOf(v, est))
}

// mapStrategy matches keyed collections, charging both keys and values.
type mapStrategy struct{}

func (mapStrategy) Supports(v reflect.Value) bool { return v.Kind() == reflect.Map }

func (mapStrategy) SizeOf(v reflect.Value, est *Estimator) int64 {
	size := int64(MapOverhead)
	for it := v.MapRange(); it.Next(); {
		size += est.ValueSize(it.Key())
		size += est.ValueSize(it.Value())
	}
	return size
}

func (mapStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	r := leaf("map", MapOverhead)
	for it := v.MapRange(); it.Next(); {
		name := fmt.Sprint(it.Key())
		ck := est.detailValue(it.Key())
		cv := est.detailValue(it.Value())
		r.addChild("key:"+name, ck)
		r.addChild("val:"+name, cv)
		r.Size += ck.Size + cv.Size
	}
	return r
}

// arrayStrategy matches ordered collections whose elements are not
// byte-addressed, charging the base overhead plus each element.
type arrayStrategy struct{}

func (arrayStrategy) Supports(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func (arrayStrategy) SizeOf(v reflect.Value, est *Estimator) int64 {
	size := int64(ArrayOverhead)
	for i := 0; i < v.Len(); i++ {
		size += est.ValueSize(v.Index(i))
	}
	return size
}

func (arrayStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	r := leaf("array", ArrayOverhead)
	for i := 0; i < v.Len(); i++ {
		c := est.detailValue(v.Index(i))
		r.addChild(strconv.Itoa(i), c)
		r.Size += c.Size
	}
	return r
}

// indirectStrategy follows non-nil pointers and interfaces to the values
// behind them. The indirection itself is free on first visit; aliased
// composites are cut off by the visitation set before reaching it.
type indirectStrategy struct{}

func (indirectStrategy) Supports(v reflect.Value) bool {
	return v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface
}

func (indirectStrategy) SizeOf(v reflect.Value, est *Estimator) int64 {
	return est.ValueSize(v.Elem())
}

func (indirectStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return est.detailValue(v.Elem())
}

// objectStrategy is the catch-all: it matches everything, charging the
// object base plus each exported field's name and recursive value cost.
// Non-struct stragglers (channels, unsafe pointers) cost the base alone.
type objectStrategy struct{}

func (objectStrategy) Supports(reflect.Value) bool { return true }

func (objectStrategy) SizeOf(v reflect.Value, est *Estimator) int64 {
	size := int64(ObjectOverhead)
	if v.Kind() != reflect.Struct {
		return size
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		size += charCount(f.Name)*CharSize + est.ValueSize(v.Field(i))
	}
	return size
}

func (objectStrategy) DetailedSizeOf(v reflect.Value, est *Estimator) *Report {
	return objectReport(v, est)
}

// objectReport builds the structured-object breakdown of v. It is shared
// by the catch-all strategy and by the detailed-mode fallback for custom
// strategies that do not implement DetailStrategy.
func objectReport(v reflect.Value, est *Estimator) *Report {
	r := leaf("object", ObjectOverhead)
	if v.Kind() != reflect.Struct {
		return r
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		c := est.detailValue(v.Field(i))
		r.addChild(f.Name, c)
		r.Size += charCount(f.Name)*CharSize + c.Size
	}
	return r
}
