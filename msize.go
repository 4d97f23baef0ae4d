// Package msize estimates the in-memory size of Go values by recursively
// walking their structure, dispatching each value to the first of an
// ordered list of shape strategies that recognizes it.
//
// The result is a heuristic approximation built from fixed per-unit
// constants, not a measurement of the allocator: it is meant for quota
// accounting, cache weighting, and relative comparisons, where a stable
// and cheap estimate matters more than byte-exact truth.
//
// Composites already sized during a call are charged a fixed reference
// cost instead of being re-traversed, which bounds shared substructure and
// makes cyclic values safe to size.
package msize

import "reflect"

// An Estimator computes approximate sizes of values. Each top-level call
// to Size or DetailedSize resets the estimator's cycle-tracking state, so
// a single estimator must not be used from multiple goroutines at once;
// use one estimator per goroutine, or SizeAll.
type Estimator struct {
	strategies []Strategy
	visits     visitSet
}

// Options are optional settings for constructing an Estimator. A nil
// *Options is ready to use and provides default values.
type Options struct {
	// Strategies replaces the default strategy chain. Order matters: the
	// first strategy whose Supports reports true wins. An empty non-nil
	// slice leaves the estimator with no strategies, in which case every
	// value sizes to 0.
	Strategies []Strategy
}

func (o *Options) strategyList() []Strategy {
	if o == nil || o.Strategies == nil {
		return DefaultStrategies()
	}
	return o.Strategies
}

// New constructs an estimator with the given options.
func New(opts *Options) *Estimator {
	return &Estimator{strategies: opts.strategyList()}
}

// Size is shorthand for New(nil).Size(v).
func Size(v any) int64 { return New(nil).Size(v) }

// Size reports the estimated size of v in bytes. It resets the cycle
// tracking state before traversing, so repeated calls on the same value
// report the same size.
func (e *Estimator) Size(v any) int64 {
	e.visits.reset()
	return e.ValueSize(reflect.ValueOf(v))
}

// ValueSize reports the estimated size of the value denoted by v. It is
// the dispatch primitive used by strategies to cost child values, and does
// not reset cycle state: a composite already visited during the current
// traversal costs RefSize. Calling it directly, outside any traversal,
// inherits whatever state the previous top-level call left behind.
func (e *Estimator) ValueSize(v reflect.Value) int64 {
	if e.visits.isVisited(v) {
		return RefSize
	}
	e.visits.markVisited(v)
	for _, s := range e.strategies {
		if s.Supports(v) {
			return s.SizeOf(v, e)
		}
	}
	return 0 // no strategy matched; unreachable with the default chain
}

// DetailedSize reports the estimated size of v as a labeled tree that
// mirrors the value's structure. The tree's total equals what Size would
// report for the same value. Cycles appear as childless "ref" leaves
// costing RefSize.
func (e *Estimator) DetailedSize(v any) *Report {
	e.visits.reset()
	return e.detailValue(reflect.ValueOf(v))
}

func (e *Estimator) detailValue(v reflect.Value) *Report {
	if e.visits.isVisited(v) {
		return leaf("ref", RefSize)
	}
	e.visits.markVisited(v)
	for _, s := range e.strategies {
		if s.Supports(v) {
			if d, ok := s.(DetailStrategy); ok {
				return d.DetailedSizeOf(v, e)
			}
			return e.fallbackReport(v, s)
		}
	}
	return leaf("unknown", 0)
}

// fallbackReport builds the detailed node for a strategy that does not
// implement DetailStrategy: structs get the generic structured-object
// breakdown, everything else a childless node with the strategy's size.
func (e *Estimator) fallbackReport(v reflect.Value, s Strategy) *Report {
	if v.Kind() == reflect.Struct {
		return objectReport(v, e)
	}
	return leaf("object", s.SizeOf(v, e))
}

// Add registers s ahead of all previously registered strategies, including
// the built-in defaults, so it is consulted first. Adding multiple
// strategies consults the most recently added one first.
func (e *Estimator) Add(s Strategy) {
	e.strategies = append([]Strategy{s}, e.strategies...)
}
