package msize

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// A Report describes the estimated size of a value as a labeled tree
// mirroring the value's structure. A node's Size is its shape's own
// overhead plus the sizes of its direct children. Reports are trees, never
// graphs: a composite reached a second time appears as a childless "ref"
// leaf costing only RefSize.
//
// Map entries are labeled by their stringified key, so keys of different
// dynamic types that stringify identically (such as 1 and "1" in a
// map[any]int) collide on a label and only one child survives; Size still
// accounts for every entry, so a node with colliding labels can exceed the
// sum of its recorded children.
type Report struct {
	Type     string             // shape label, e.g. "object", "array", "string"
	Size     int64              // total estimated bytes for this subtree
	Children map[string]*Report // keyed by field name, index, or entry label; nil for leaves
}

func leaf(typ string, size int64) *Report { return &Report{Type: typ, Size: size} }

func (r *Report) addChild(label string, c *Report) {
	if r.Children == nil {
		r.Children = make(map[string]*Report)
	}
	r.Children[label] = c
}

// String renders r as an indented tree, one node per line, with children
// listed in sorted label order.
func (r *Report) String() string {
	var sb strings.Builder
	r.render(&sb, "", 0)
	return sb.String()
}

func (r *Report) render(sb *strings.Builder, label string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}
	fmt.Fprintf(sb, "%s %s\n", r.Type, FormatSize(r.Size, Byte))
	for _, key := range slices.Sorted(maps.Keys(r.Children)) {
		r.Children[key].render(sb, key, depth+1)
	}
}
