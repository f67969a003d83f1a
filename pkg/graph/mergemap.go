package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MergeMap records, per surviving node, the original node ids folded into
// it. A node id is the target of at most one survivor.
type MergeMap map[int]map[int]struct{}

// record folds removed, and everything already folded into removed, into
// survivor.
func (m MergeMap) record(survivor, removed int) {
	set, ok := m[survivor]
	if !ok {
		set = make(map[int]struct{})
		m[survivor] = set
	}
	set[removed] = struct{}{}
	for id := range m[removed] {
		set[id] = struct{}{}
	}
	delete(m, removed)
}

// Merged returns the original ids folded into survivor, ascending.
func (m MergeMap) Merged(survivor int) []int {
	return slices.Sorted(maps.Keys(m[survivor]))
}

func (m MergeMap) Survivors() []int { return slices.Sorted(maps.Keys(m)) }

// Resolve returns the survivor an original id ended up in, or id itself.
func (m MergeMap) Resolve(id int) int {
	for survivor, set := range m {
		if _, ok := set[id]; ok {
			return survivor
		}
	}
	return id
}

func (m MergeMap) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, s := range m.Survivors() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: %v", s, m.Merged(s))
	}
	sb.WriteString("}")
	return sb.String()
}
