package model

import (
	"errors"
	"fmt"
)

// DesignSettings holds the installation conditions shared by every circuit.
type DesignSettings struct {
	AmbientTempC     int        `json:"ambient_temp_c"`    // °C, 20..50
	Insulation       Insulation `json:"insulation"`        // PVC or EPR_XLPE
	Method           string     `json:"method"`            // Installation method key, e.g. "B1"
	LightingGrouping int        `json:"lighting_grouping"` // Circuits grouped with the lighting circuit
	OutletGrouping   int        `json:"outlet_grouping"`   // Circuits grouped with each outlet circuit
}

// Ambient temperature range accepted by Validate.
const (
	MinAmbientTempC = 20
	MaxAmbientTempC = 50
)

func DefaultSettings() DesignSettings {
	return DesignSettings{
		AmbientTempC:     30,
		Insulation:       InsulationPVC,
		Method:           "B1",
		LightingGrouping: 1,
		OutletGrouping:   4,
	}
}

// Validate checks the ranges a caller must enforce before dimensioning.
// Whether Method exists in the ampacity table is checked by the tables package.
func (s DesignSettings) Validate() error {
	var errs []error
	if s.AmbientTempC < MinAmbientTempC || s.AmbientTempC > MaxAmbientTempC {
		errs = append(errs, fmt.Errorf("ambient temperature %d°C outside [%d, %d]", s.AmbientTempC, MinAmbientTempC, MaxAmbientTempC))
	}
	if s.Insulation != InsulationPVC && s.Insulation != InsulationEPRXLPE {
		errs = append(errs, fmt.Errorf("unknown insulation %q", s.Insulation))
	}
	if s.Method == "" {
		errs = append(errs, errors.New("installation method is required"))
	}
	if s.LightingGrouping < 1 {
		errs = append(errs, errors.New("lighting grouping must be at least 1"))
	}
	if s.OutletGrouping < 1 {
		errs = append(errs, errors.New("outlet grouping must be at least 1"))
	}
	return errors.Join(errs...)
}
