// Package tables holds the read-only reference data used to size branch
// circuits: copper ampacities, correction factors and the standardized
// section and breaker catalogs. All values are package data and safe for
// concurrent use.
package tables

import (
	"sort"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// ampacity holds copper conductor capacities in A (two loaded conductors),
// keyed by insulation, installation method and section in mm².
var ampacity = map[model.Insulation]map[string]map[float64]float64{
	model.InsulationPVC: {
		"A1": {0.5: 7, 0.75: 9, 1: 11, 1.5: 14.5, 2.5: 19.5, 4: 26, 6: 34, 10: 46, 16: 61},
		"B1": {0.5: 9, 0.75: 11, 1: 14, 1.5: 17.5, 2.5: 24, 4: 32, 6: 41, 10: 57, 16: 76, 25: 101},
		"B2": {0.5: 8, 0.75: 10, 1: 12, 1.5: 15.5, 2.5: 21, 4: 28, 6: 36, 10: 50, 16: 68},
		"C":  {0.5: 9, 0.75: 11, 1: 13, 1.5: 16.5, 2.5: 23, 4: 30, 6: 38, 10: 52, 16: 69},
		"D":  {1.5: 22, 2.5: 29, 4: 38, 6: 47, 10: 63, 16: 81},
	},
	model.InsulationEPRXLPE: {
		"B1": {1.5: 23, 2.5: 31, 4: 42, 6: 54, 10: 75, 16: 100},
	},
}

type tempKey struct {
	insulation model.Insulation
	tempC      int
}

// temperatureFactors is the ambient temperature correction (FCT) for
// temperatures above the 30°C reference.
var temperatureFactors = map[tempKey]float64{
	{model.InsulationPVC, 30}:     1.00,
	{model.InsulationPVC, 35}:     0.94,
	{model.InsulationPVC, 40}:     0.87,
	{model.InsulationEPRXLPE, 30}: 1.00,
	{model.InsulationEPRXLPE, 35}: 0.96,
	{model.InsulationEPRXLPE, 40}: 0.91,
}

// groupingFactors is the correction (FCA) for circuits sharing a conduit.
var groupingFactors = map[int]float64{
	1: 1.00, 2: 0.80, 3: 0.70, 4: 0.65, 5: 0.60, 6: 0.57, 7: 0.57, 8: 0.52, 9: 0.50,
}

// Fallbacks for combinations the correction tables do not list. These are
// flat defaults, not extrapolations.
const (
	DefaultTemperatureFactor = 0.90
	DefaultGroupingFactor    = 0.50
	ReferenceAmbientC        = 30
)

// Sections is the standardized conductor catalog in ascending order (mm²).
var Sections = []float64{1.5, 2.5, 4, 6, 10, 16, 25, 35, 50}

// BreakerRatings is the standardized breaker catalog in ascending order (A).
var BreakerRatings = []int{6, 10, 13, 16, 20, 25, 32, 40, 50, 63, 70, 80, 100}

// Minimum sections per circuit category (mm²).
const (
	MinSectionLighting = 1.5
	MinSectionOutlet   = 2.5
)

// MinSection returns the smallest section allowed for a circuit category.
func MinSection(c model.Category) float64 {
	if c == model.CategoryLighting {
		return MinSectionLighting
	}
	return MinSectionOutlet
}

// Ampacity returns the table capacity for a conductor, or 0 when the
// combination is not tabulated.
func Ampacity(ins model.Insulation, method string, section float64) float64 {
	return ampacity[ins][method][section]
}

// HasMethod reports whether the ampacity table has a column for the method.
func HasMethod(ins model.Insulation, method string) bool {
	_, ok := ampacity[ins][method]
	return ok
}

// Methods returns the installation methods tabulated for an insulation, sorted.
func Methods(ins model.Insulation) []string {
	methods := make([]string, 0, len(ampacity[ins]))
	for m := range ampacity[ins] {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Insulations returns the insulation materials present in the ampacity table.
func Insulations() []model.Insulation {
	return []model.Insulation{model.InsulationPVC, model.InsulationEPRXLPE}
}

// TemperatureFactor returns FCT for the insulation at the ambient temperature.
func TemperatureFactor(ins model.Insulation, tempC int) float64 {
	if tempC <= ReferenceAmbientC {
		return 1.0
	}
	if f, ok := temperatureFactors[tempKey{ins, tempC}]; ok {
		return f
	}
	return DefaultTemperatureFactor
}

// GroupingFactor returns FCA for n circuits grouped together.
func GroupingFactor(n int) float64 {
	if n <= 1 {
		return 1.0
	}
	if f, ok := groupingFactors[n]; ok {
		return f
	}
	return DefaultGroupingFactor
}
