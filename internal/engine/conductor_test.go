package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectConductor_LightingMinimum(t *testing.T) {
	c, err := SelectConductor(160.0/127, model.InsulationPVC, "B1", model.CategoryLighting, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.5, c.Section)
	assert.Equal(t, 17.5, c.TableAmpacity)
	assert.Equal(t, 17.5, c.CorrectedAmpacity)
	assert.InDelta(t, 1.449, c.RequiredAmpacity, 0.001)
}

func TestSelectConductor_OutletMinimum(t *testing.T) {
	c, err := SelectConductor(0.5, model.InsulationPVC, "B1", model.CategoryOutlet, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Section, "outlets never go below 2.5 mm²")
}

func TestSelectConductor_Derating(t *testing.T) {
	// 20 A x 1.15 / (0.87 x 0.65) = 40.67 A -> 6 mm² (41 A) on PVC B1
	c, err := SelectConductor(20, model.InsulationPVC, "B1", model.CategoryOutlet, 0.87, 0.65)
	require.NoError(t, err)
	assert.Equal(t, 6.0, c.Section)
	assert.InDelta(t, 41*0.87*0.65, c.CorrectedAmpacity, 1e-9)
}

func TestSelectConductor_ZeroDerating(t *testing.T) {
	_, err := SelectConductor(10, model.InsulationPVC, "B1", model.CategoryOutlet, 1, 0)
	assert.ErrorIs(t, err, ErrZeroDeratingFactor)

	_, err = SelectConductor(10, model.InsulationPVC, "B1", model.CategoryOutlet, 0, 1)
	assert.ErrorIs(t, err, ErrZeroDeratingFactor)
}

func TestSelectConductor_OutOfRange(t *testing.T) {
	c, err := SelectConductor(100, model.InsulationPVC, "B1", model.CategoryOutlet, 1, 1)
	assert.ErrorIs(t, err, ErrSectionOutOfRange)
	assert.Zero(t, c.Section)
	assert.InDelta(t, 115, c.RequiredAmpacity, 1e-9)
}

func TestSelectConductor_UnknownMethod(t *testing.T) {
	_, err := SelectConductor(1, model.InsulationEPRXLPE, "A1", model.CategoryOutlet, 1, 1)
	assert.ErrorIs(t, err, ErrSectionOutOfRange)
}

func TestSelectConductor_Monotone(t *testing.T) {
	for _, method := range []string{"A1", "B1", "B2", "C", "D"} {
		for _, fca := range []float64{1, 0.8, 0.5} {
			prev := 0.0
			for ib := 0.1; ib <= 150; ib += 0.1 {
				c, err := SelectConductor(ib, model.InsulationPVC, method, model.CategoryLighting, 0.94, fca)
				section := c.Section
				if err != nil {
					section = math.Inf(1)
				}
				require.GreaterOrEqual(t, section, prev, "method %s fca %.2f ib %.1f", method, fca, ib)
				prev = section
			}
		}
	}
}

func TestSelectBreaker(t *testing.T) {
	tests := []struct {
		ib, iz float64
		want   int
	}{
		{1.26, 17.5, 6},
		{6, 24, 6},
		{9.45, 24, 10},
		{10.1, 24, 13},
		{63.5, 101, 70},
	}
	for _, tt := range tests {
		got, err := SelectBreaker(tt.ib, tt.iz)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ib %.2f iz %.2f", tt.ib, tt.iz)
	}
}

func TestSelectBreaker_Unresolved(t *testing.T) {
	_, err := SelectBreaker(20.5, 24)
	assert.ErrorIs(t, err, ErrBreakerUnresolved)

	_, err = SelectBreaker(7, 9.5)
	assert.ErrorIs(t, err, ErrBreakerUnresolved)

	_, err = SelectBreaker(101, 200)
	assert.ErrorIs(t, err, ErrBreakerUnresolved)
}
