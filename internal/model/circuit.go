package model

// Status is the outcome of sizing one circuit.
type Status string

const (
	StatusOK     Status = "OK"
	StatusAdjust Status = "needs-adjustment" // Conductor found, no breaker fits between Ib and Iz
	StatusError  Status = "error"            // No conductor could be chosen
)

// Fault names the reason a circuit is not OK.
type Fault string

const (
	FaultNone              Fault = ""
	FaultZeroDerating      Fault = "derating factor zero"
	FaultSectionOutOfRange Fault = "exceeds largest standardized section"
	FaultBreakerUnresolved Fault = "no standardized breaker between Ib and Iz"
)

// Circuit is one row of the circuit schedule.
type Circuit struct {
	Index             int       `json:"index"` // 1-based, global across the schedule
	Label             string    `json:"label"`
	Category          Category  `json:"category"`
	Voltage           int       `json:"voltage"`
	TotalLoad         float64   `json:"total_load"`      // VA, or W for specific loads
	Loads             []float64 `json:"loads,omitempty"` // Individual outlet loads packed into the circuit
	DesignCurrent     float64   `json:"ib"`              // Ib, A
	FCT               float64   `json:"fct"`
	FCA               float64   `json:"fca"`
	RequiredAmpacity  float64   `json:"required_ampacity"`  // Table ampacity needed, A
	Section           float64   `json:"section"`            // mm², 0 when none qualified
	CorrectedAmpacity float64   `json:"corrected_ampacity"` // Iz after derating, A
	Breaker           int       `json:"breaker"`            // A, 0 when none fits
	Status            Status    `json:"status"`
	Fault             Fault     `json:"fault,omitempty"`
}

// HasSection reports whether a conductor was selected.
func (c Circuit) HasSection() bool {
	return c.Section > 0
}

// HasBreaker reports whether a breaker rating was selected.
func (c Circuit) HasBreaker() bool {
	return c.Breaker > 0
}

// RoomSummary is the per-room view used by reports.
type RoomSummary struct {
	Name        string    `json:"name"`
	Area        float64   `json:"area"`
	Perimeter   float64   `json:"perimeter"`
	LightingVA  float64   `json:"lighting_va"`
	OutletLoads []float64 `json:"outlet_loads"`
	Device      string    `json:"device,omitempty"`
}

// OutletVA returns the sum of the room's outlet loads.
func (r RoomSummary) OutletVA() float64 {
	var total float64
	for _, l := range r.OutletLoads {
		total += l
	}
	return total
}

// Totals aggregates the connected load of a schedule.
type Totals struct {
	LightingVA    float64 `json:"lighting_va"`
	OutletVA      float64 `json:"outlet_va"`
	SpecificLoadW float64 `json:"specific_load_w"`
}

// Schedule is the complete result of one dimensioning run. Rooms and Circuits
// are derived from the same snapshot of rooms and settings.
type Schedule struct {
	Settings DesignSettings `json:"settings"`
	Rooms    []RoomSummary  `json:"rooms"`
	Circuits []Circuit      `json:"circuits"`
	Totals   Totals         `json:"totals"`
}

// CountByStatus returns how many circuits ended with the given status.
func (s Schedule) CountByStatus(st Status) int {
	n := 0
	for _, c := range s.Circuits {
		if c.Status == st {
			n++
		}
	}
	return n
}

// OK reports whether every circuit was sized without issues.
func (s Schedule) OK() bool {
	return s.CountByStatus(StatusOK) == len(s.Circuits)
}
