package engine

import "github.com/piwi3910/CircuitSizer/internal/model"

// ClassOrder is the order in which outlet groups are emitted.
var ClassOrder = []model.LoadClass{
	model.ClassKitchenService,
	model.ClassWetExternal,
	model.ClassGeneral,
}

// VoltageBucket is the flat list of outlet loads at one nominal voltage.
type VoltageBucket struct {
	Voltage int
	Loads   []float64
}

// LoadGroup holds the outlet loads of one class, bucketed by voltage in the
// order the voltages were first seen.
type LoadGroup struct {
	Class   model.LoadClass
	Buckets []VoltageBucket
}

// TotalVA returns the sum of all loads in the group.
func (g LoadGroup) TotalVA() float64 {
	var total float64
	for _, b := range g.Buckets {
		for _, l := range b.Loads {
			total += l
		}
	}
	return total
}

// GroupLoads partitions rooms by load class and concatenates their outlet
// loads per outlet voltage. The result always has one group per ClassOrder
// entry, in that order.
func GroupLoads(rooms []RoomLoads) []LoadGroup {
	groups := make([]LoadGroup, len(ClassOrder))
	index := make(map[model.LoadClass]int, len(ClassOrder))
	for i, c := range ClassOrder {
		groups[i] = LoadGroup{Class: c}
		index[c] = i
	}

	for _, rl := range rooms {
		g := &groups[index[rl.Profile.Class]]
		b := bucketFor(g, rl.Room.OutletVoltage)
		b.Loads = append(b.Loads, rl.OutletLoads...)
	}
	return groups
}

func bucketFor(g *LoadGroup, voltage int) *VoltageBucket {
	for i := range g.Buckets {
		if g.Buckets[i].Voltage == voltage {
			return &g.Buckets[i]
		}
	}
	g.Buckets = append(g.Buckets, VoltageBucket{Voltage: voltage})
	return &g.Buckets[len(g.Buckets)-1]
}
