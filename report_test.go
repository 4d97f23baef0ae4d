package msize_test

import (
	"testing"

	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/msize"
	"github.com/google/go-cmp/cmp"
)

// The detailed tree and the scalar entry point use the same shape rules,
// so their totals must agree for any input.
func TestDetailedMatchesScalar(t *testing.T) {
	type inner struct{ N int }
	type outer struct {
		Name string
		In   *inner
		Tags []string
	}

	n := &node{}
	n.Self = n
	shared := []string{"dup"}

	est := msize.New(nil)
	inputs := []any{
		nil,
		true,
		3.75,
		"hello",
		[]byte("raw"),
		[]string{"a", "bc"},
		map[string]int{"a": 1, "b": 2},
		outer{Name: "ab", In: &inner{N: 1}, Tags: []string{"x", "y"}},
		n,                     // cyclic
		[]any{shared, shared}, // aliased substructure
	}
	for _, v := range inputs {
		d := est.DetailedSize(v)
		if got := est.Size(v); got != d.Size {
			t.Errorf("Input %v: detailed size %d, scalar size %d", v, d.Size, got)
		}
	}
}

func TestReportLabels(t *testing.T) {
	est := msize.New(nil)

	t.Run("Map", func(t *testing.T) {
		got := est.DetailedSize(map[string]bool{"on": true})
		want := &msize.Report{
			Type: "map",
			Size: msize.MapOverhead + 2*msize.CharSize + msize.BoolSize,
			Children: map[string]*msize.Report{
				"key:on": {Type: "string", Size: 2 * msize.CharSize},
				"val:on": {Type: "boolean", Size: msize.BoolSize},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DetailedSize (-want, +got):\n%s", diff)
		}
	})

	t.Run("Array", func(t *testing.T) {
		got := est.DetailedSize([]string{"ab", "c"})
		want := &msize.Report{
			Type: "array",
			Size: msize.ArrayOverhead + 3*msize.CharSize,
			Children: map[string]*msize.Report{
				"0": {Type: "string", Size: 2 * msize.CharSize},
				"1": {Type: "string", Size: msize.CharSize},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DetailedSize (-want, +got):\n%s", diff)
		}
	})

	t.Run("Set", func(t *testing.T) {
		got := est.DetailedSize(mapset.New("ab"))
		want := &msize.Report{
			Type: "set",
			Size: msize.SetOverhead + 2*msize.CharSize,
			Children: map[string]*msize.Report{
				"0": {Type: "string", Size: 2 * msize.CharSize},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DetailedSize (-want, +got):\n%s", diff)
		}

		// A set node's size is its base overhead plus its entries.
		var sum int64
		for _, c := range got.Children {
			sum += c.Size
		}
		if got.Size != msize.SetOverhead+sum {
			t.Errorf("Set size %d != overhead %d + children %d",
				got.Size, int64(msize.SetOverhead), sum)
		}
	})

	t.Run("Object", func(t *testing.T) {
		type item struct{ Name string }
		got := est.DetailedSize(item{Name: "ab"})
		want := &msize.Report{
			Type: "object",
			Size: msize.ObjectOverhead + 4*msize.CharSize + 2*msize.CharSize,
			Children: map[string]*msize.Report{
				"Name": {Type: "string", Size: 2 * msize.CharSize},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DetailedSize (-want, +got):\n%s", diff)
		}
	})

	t.Run("Cycle", func(t *testing.T) {
		n := &node{}
		n.Self = n
		got := est.DetailedSize(n)

		// The revisit is a childless leaf carrying only the reference cost.
		want := &msize.Report{
			Type: "object",
			Size: msize.ObjectOverhead + 4*msize.CharSize + msize.RefSize,
			Children: map[string]*msize.Report{
				"Self": {Type: "ref", Size: msize.RefSize},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DetailedSize (-want, +got):\n%s", diff)
		}
	})
}

func TestReportString(t *testing.T) {
	est := msize.New(nil)
	r := est.DetailedSize([]string{"ab"})

	const want = "array 20 B\n  0: string 4 B\n"
	if got := r.String(); got != want {
		t.Errorf("String: got %#q, want %#q", got, want)
	}
}
