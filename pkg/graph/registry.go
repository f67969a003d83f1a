package graph

import (
	"maps"
	"slices"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/device"
)

// Registry maps grid coordinates to node ids. It outlives a single build so
// that node ids stay stable between recomputations.
type Registry struct {
	ids    map[device.Point]int
	points map[int]device.Point
}

func NewRegistry() *Registry {
	return &Registry{
		ids:    make(map[device.Point]int),
		points: make(map[int]device.Point),
	}
}

// Resolve returns the node id at p, allocating the smallest free id when
// the coordinate is new. Id 0 belongs to the reference node.
func (r *Registry) Resolve(p device.Point) int {
	if id, ok := r.ids[p]; ok {
		return id
	}

	id := consts.ReferenceNodeID + 1
	for {
		if _, used := r.points[id]; !used {
			break
		}
		id++
	}

	r.ids[p] = id
	r.points[id] = p
	return id
}

func (r *Registry) Lookup(p device.Point) (int, bool) {
	id, ok := r.ids[p]
	return id, ok
}

func (r *Registry) Point(id int) (device.Point, bool) {
	p, ok := r.points[id]
	return p, ok
}

func (r *Registry) Release(p device.Point) {
	if id, ok := r.ids[p]; ok {
		delete(r.ids, p)
		delete(r.points, id)
	}
}

func (r *Registry) IDs() []int { return slices.Sorted(maps.Keys(r.points)) }

func (r *Registry) Len() int { return len(r.ids) }
