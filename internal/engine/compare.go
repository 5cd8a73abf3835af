package engine

import (
	"fmt"

	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/tables"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.DesignSettings
}

// ComparisonResult holds the schedule and summary figures for one scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario
	Schedule       model.Schedule
	Circuits       int
	OKCount        int
	AdjustCount    int
	ErrorCount     int
	LargestSection float64 // mm²
	CopperIndex    float64 // Sum of chosen sections, mm²
}

// CompareScenarios dimensions the same rooms under each scenario and returns
// the results in scenario order. Useful for what-if comparisons of ambient
// temperature, insulation or installation method.
func CompareScenarios(scenarios []ComparisonScenario, rooms []model.Room) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		sched := New(scenario.Settings).Dimension(rooms)

		var largest, copper float64
		for _, c := range sched.Circuits {
			copper += c.Section
			if c.Section > largest {
				largest = c.Section
			}
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Schedule:       sched,
			Circuits:       len(sched.Circuits),
			OKCount:        sched.CountByStatus(model.StatusOK),
			AdjustCount:    sched.CountByStatus(model.StatusAdjust),
			ErrorCount:     sched.CountByStatus(model.StatusError),
			LargestSection: largest,
			CopperIndex:    copper,
		})
	}

	return results
}

// BuildDefaultScenarios generates alternatives around base: the other
// insulation where it supports the same method, every other method for the
// current insulation, and a hotter ambient.
func BuildDefaultScenarios(base model.DesignSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: other insulation, same method
	for _, ins := range tables.Insulations() {
		if ins == base.Insulation || !tables.HasMethod(ins, base.Method) {
			continue
		}
		alt := base
		alt.Insulation = ins
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Insulation %s", ins),
			Settings: alt,
		})
	}

	// Scenario: other installation methods
	for _, m := range tables.Methods(base.Insulation) {
		if m == base.Method {
			continue
		}
		alt := base
		alt.Method = m
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Method %s", m),
			Settings: alt,
		})
	}

	// Scenario: hotter ambient
	if hot := base.AmbientTempC + 10; hot <= model.MaxAmbientTempC {
		alt := base
		alt.AmbientTempC = hot
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Ambient %d°C", hot),
			Settings: alt,
		})
	}

	return scenarios
}
