package engine

import (
	"math"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// Room sizing constants. Areas in m², lengths in m, loads in VA.
const (
	smallRoomArea     = 6.0
	baseLightingVA    = 100.0
	lightingStepArea  = 4.0
	lightingStepVA    = 60.0
	kitchenOutletStep = 3.5
	generalOutletStep = 5.0
	minKitchenOutlets = 2
	maxSpecialOutlets = 3
	specialOutletVA   = 600.0
	generalOutletVA   = 100.0
)

// RoomLoads is the derived load picture of one room.
type RoomLoads struct {
	Room        model.Room
	Profile     Profile
	Area        float64
	Perimeter   float64
	LightingVA  float64
	OutletLoads []float64 // 600 VA entries first
}

// OutletCount returns the number of outlets assigned to the room.
func (rl RoomLoads) OutletCount() int {
	return len(rl.OutletLoads)
}

// Summary returns the report view of the room.
func (rl RoomLoads) Summary() model.RoomSummary {
	s := model.RoomSummary{
		Name:        rl.Room.Name,
		Area:        rl.Area,
		Perimeter:   rl.Perimeter,
		LightingVA:  rl.LightingVA,
		OutletLoads: append([]float64(nil), rl.OutletLoads...),
	}
	if rl.Room.Device != nil {
		s.Device = rl.Room.Device.Label()
	}
	return s
}

// LightingLoad returns the minimum lighting load in VA for a floor area:
// 100 VA for the first 6 m² plus 60 VA for each whole 4 m² beyond that.
func LightingLoad(area float64) float64 {
	if area <= smallRoomArea {
		return baseLightingVA
	}
	return baseLightingVA + math.Floor((area-smallRoomArea)/lightingStepArea)*lightingStepVA
}

// OutletCount returns the number of general-purpose outlets for a room.
func OutletCount(rule OutletRule, perimeter, area float64) int {
	switch rule {
	case RuleSingle, RuleExternal:
		return 1
	case RuleKitchen:
		n := int(math.Ceil(perimeter / kitchenOutletStep))
		if n < minKitchenOutlets {
			n = minKitchenOutlets
		}
		return n
	}
	if area <= smallRoomArea {
		return 1
	}
	return int(math.Ceil(perimeter / generalOutletStep))
}

// OutletLoads assigns a rated power to each outlet. Special rooms get up to
// three 600 VA outlets; every other outlet is 100 VA.
func OutletLoads(special bool, count int) []float64 {
	loads := make([]float64, 0, count)
	n600 := 0
	if special {
		n600 = min(count, maxSpecialOutlets)
	}
	for i := 0; i < n600; i++ {
		loads = append(loads, specialOutletVA)
	}
	for i := n600; i < count; i++ {
		loads = append(loads, generalOutletVA)
	}
	return loads
}

// CalculateRoom derives geometry, lighting and outlet loads for one room.
// The room is assumed valid (positive dimensions).
func CalculateRoom(r model.Room, c Classifier) RoomLoads {
	p := c.Classify(r.Name)
	area := r.Area()
	perimeter := r.Perimeter()
	return RoomLoads{
		Room:        r,
		Profile:     p,
		Area:        area,
		Perimeter:   perimeter,
		LightingVA:  LightingLoad(area),
		OutletLoads: OutletLoads(p.Special, OutletCount(p.Outlets, perimeter, area)),
	}
}
