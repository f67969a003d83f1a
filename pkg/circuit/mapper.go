package circuit

import "github.com/edp1096/grid-spice/pkg/graph"

// MapResults scatters reduced voltages onto the original node ids. Every id
// merged into a survivor gets the survivor's voltage. Ids absent from the
// result were never reached and keep whatever value the caller holds.
func MapResults(sol *Solution, merges graph.MergeMap) map[int]float64 {
	out := make(map[int]float64, len(sol.Voltages))
	for id, v := range sol.Voltages {
		out[id] = v
		for _, orig := range merges.Merged(id) {
			out[orig] = v
		}
	}
	return out
}
