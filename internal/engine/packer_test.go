package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutletCap(t *testing.T) {
	assert.Equal(t, 1200.0, OutletCap(127))
	assert.Equal(t, 2200.0, OutletCap(220))
	assert.Equal(t, 2200.0, OutletCap(110))
}

func TestPackLoads_Empty(t *testing.T) {
	assert.Empty(t, PackLoads(nil, 1200))
	assert.Empty(t, PackLoads([]float64{}, 1200))
}

func TestPackLoads_KitchenSplit(t *testing.T) {
	bins := PackLoads([]float64{600, 600, 600, 100}, Cap127V)
	assert.Equal(t, [][]float64{{600, 600}, {600, 100}}, bins)
}

func TestPackLoads_CompliantInputIsOneBin(t *testing.T) {
	loads := []float64{100, 600, 100, 300}
	bins := PackLoads(loads, 1200)
	require.Len(t, bins, 1)
	assert.Equal(t, []float64{600, 300, 100, 100}, bins[0])
}

func TestPackLoads_OversizedLoneLoad(t *testing.T) {
	bins := PackLoads([]float64{100, 1500}, 1200)
	assert.Equal(t, [][]float64{{1500}, {100}}, bins)
}

func TestPackLoads_OnlyOpenBinConsidered(t *testing.T) {
	// 700 closes the first bin; the later 100s never go back to it.
	bins := PackLoads([]float64{600, 700, 100, 100}, 1200)
	assert.Equal(t, [][]float64{{700}, {600, 100, 100}}, bins)
}

func TestPackLoads_DoesNotMutateInput(t *testing.T) {
	loads := []float64{100, 600, 100}
	PackLoads(loads, 1200)
	assert.Equal(t, []float64{100, 600, 100}, loads)
}

func TestPackLoads_MultisetRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	choices := []float64{100, 200, 600, 1000, 1500, 2500}

	for i := 0; i < 200; i++ {
		n := rng.Intn(20)
		loads := make([]float64, n)
		for j := range loads {
			loads[j] = choices[rng.Intn(len(choices))]
		}
		limit := []float64{Cap127V, CapOtherV}[rng.Intn(2)]

		var flat []float64
		for _, bin := range PackLoads(loads, limit) {
			require.NotEmpty(t, bin)
			if len(bin) > 1 {
				assert.LessOrEqual(t, sumLoads(bin), limit, "multi-load bin over cap")
			}
			flat = append(flat, bin...)
		}

		want := append([]float64(nil), loads...)
		sort.Float64s(want)
		sort.Float64s(flat)
		if len(want) == 0 {
			assert.Empty(t, flat)
			continue
		}
		assert.Equal(t, want, flat, "iteration %d", i)
	}
}
