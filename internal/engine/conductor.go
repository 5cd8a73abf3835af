package engine

import (
	"errors"

	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/tables"
)

// SafetyMargin is applied to Ib before comparing against table ampacity.
const SafetyMargin = 1.15

var (
	ErrZeroDeratingFactor = errors.New("derating factor zero")
	ErrSectionOutOfRange  = errors.New("exceeds largest standardized section")
)

// Conductor is the outcome of a cross-section selection.
type Conductor struct {
	Section           float64 // mm²
	TableAmpacity     float64 // A, uncorrected
	RequiredAmpacity  float64 // A, Ib x margin / (fct x fca)
	CorrectedAmpacity float64 // A, table ampacity x fct x fca
}

// SelectConductor picks the smallest standardized section that is at least
// the category minimum and whose table ampacity covers ib with the safety
// margin after derating by fct and fca.
func SelectConductor(ib float64, ins model.Insulation, method string, cat model.Category, fct, fca float64) (Conductor, error) {
	derating := fct * fca
	if derating == 0 {
		return Conductor{}, ErrZeroDeratingFactor
	}

	required := ib * SafetyMargin / derating
	minSection := tables.MinSection(cat)

	for _, sec := range tables.Sections {
		if sec < minSection {
			continue
		}
		iz := tables.Ampacity(ins, method, sec)
		if iz >= required {
			return Conductor{
				Section:           sec,
				TableAmpacity:     iz,
				RequiredAmpacity:  required,
				CorrectedAmpacity: iz * derating,
			}, nil
		}
	}
	return Conductor{RequiredAmpacity: required}, ErrSectionOutOfRange
}
