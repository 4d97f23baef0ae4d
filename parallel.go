package msize

import (
	"runtime"

	"github.com/creachadair/taskgroup"
)

// SizeAll estimates the sizes of vs concurrently and returns the results
// in corresponding order. Each task constructs its own estimator with
// opts, so no cycle-tracking state is shared between values; a nil opts
// uses the defaults for every value.
func SizeAll(vs []any, opts *Options) []int64 {
	out := make([]int64, len(vs))
	g, start := taskgroup.New(nil).Limit(runtime.NumCPU())
	for i, v := range vs {
		start(func() error {
			out[i] = New(opts).Size(v)
			return nil
		})
	}
	g.Wait()
	return out
}
