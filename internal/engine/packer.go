package engine

import "sort"

// Outlet circuit caps in VA.
const (
	Cap127V   = 1200.0
	CapOtherV = 2200.0
)

// OutletCap returns the VA limit for an outlet circuit at the given voltage.
// Only exactly 127 V gets the lower cap.
func OutletCap(voltage int) float64 {
	if voltage == 127 {
		return Cap127V
	}
	return CapOtherV
}

// PackLoads splits loads into circuits using a greedy descending heuristic.
//
// Loads are sorted largest first and appended to the open circuit while the
// running sum stays within limit; otherwise the open circuit is closed and a
// new one is started with the load. Only the most recently opened circuit is
// considered, and a single load larger than limit still forms its own
// circuit, so callers must not assume every circuit sums to at most limit.
// The input slice is not modified.
func PackLoads(loads []float64, limit float64) [][]float64 {
	if len(loads) == 0 {
		return nil
	}

	sorted := append([]float64(nil), loads...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var circuits [][]float64
	var current []float64
	var sum float64

	for _, l := range sorted {
		if sum+l <= limit {
			current = append(current, l)
			sum += l
			continue
		}
		if len(current) > 0 {
			circuits = append(circuits, current)
		}
		current = []float64{l}
		sum = l
	}
	if len(current) > 0 {
		circuits = append(circuits, current)
	}
	return circuits
}

func sumLoads(loads []float64) float64 {
	var total float64
	for _, l := range loads {
		total += l
	}
	return total
}
