package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/tables"
)

// specificLoadFCA is the grouping factor used for dedicated appliance circuits.
const specificLoadFCA = 1.0

// Dimensioner turns a room list into a circuit schedule.
// The zero value is not usable; construct one with New.
type Dimensioner struct {
	Settings          model.DesignSettings
	Classifier        Classifier
	TemperatureFactor func(ins model.Insulation, tempC int) float64
	GroupingFactor    func(n int) float64
}

func New(settings model.DesignSettings) *Dimensioner {
	return &Dimensioner{
		Settings:          settings,
		Classifier:        DefaultClassifier(),
		TemperatureFactor: tables.TemperatureFactor,
		GroupingFactor:    tables.GroupingFactor,
	}
}

// Dimension computes the full schedule for rooms. The caller's slice is
// copied first, so room summaries and circuits come from the same snapshot
// and the input is never modified. Rooms must already be validated.
//
// Circuits are emitted in a fixed order: the aggregate lighting circuit,
// then outlet circuits per load class and voltage, then one circuit per
// room appliance. Per-circuit failures are recorded on the circuit and do
// not stop the remaining circuits from being sized.
func (d *Dimensioner) Dimension(rooms []model.Room) model.Schedule {
	snapshot := model.CloneRooms(rooms)

	loads := make([]RoomLoads, len(snapshot))
	for i, r := range snapshot {
		loads[i] = CalculateRoom(r, d.Classifier)
	}

	sched := model.Schedule{
		Settings: d.Settings,
		Rooms:    make([]model.RoomSummary, len(loads)),
	}
	for i, rl := range loads {
		sched.Rooms[i] = rl.Summary()
	}
	if len(loads) == 0 {
		return sched
	}

	fct := d.TemperatureFactor(d.Settings.Insulation, d.Settings.AmbientTempC)
	emit := func(c model.Circuit) {
		c.Index = len(sched.Circuits) + 1
		c.FCT = fct
		d.size(&c)
		sched.Circuits = append(sched.Circuits, c)
	}

	// Lighting: one circuit at the first room's lighting voltage.
	var lightingVA float64
	for _, rl := range loads {
		lightingVA += rl.LightingVA
	}
	sched.Totals.LightingVA = lightingVA
	if lightingVA > 0 {
		v := loads[0].Room.LightingVoltage
		emit(model.Circuit{
			Label:         "Lighting",
			Category:      model.CategoryLighting,
			Voltage:       v,
			TotalLoad:     lightingVA,
			DesignCurrent: lightingVA / float64(v),
			FCA:           d.GroupingFactor(d.Settings.LightingGrouping),
		})
	}

	// Outlets: pack each class/voltage bucket.
	outletFCA := d.GroupingFactor(d.Settings.OutletGrouping)
	for _, g := range GroupLoads(loads) {
		for _, b := range g.Buckets {
			for _, bin := range PackLoads(b.Loads, OutletCap(b.Voltage)) {
				total := sumLoads(bin)
				sched.Totals.OutletVA += total
				emit(model.Circuit{
					Label:         "Outlets - " + g.Class.String(),
					Category:      model.CategoryOutlet,
					Voltage:       b.Voltage,
					TotalLoad:     total,
					Loads:         bin,
					DesignCurrent: total / float64(b.Voltage),
					FCA:           outletFCA,
				})
			}
		}
	}

	// Specific loads: one dedicated circuit per appliance.
	for _, rl := range loads {
		dev := rl.Room.Device
		if dev == nil {
			continue
		}
		sched.Totals.SpecificLoadW += dev.PowerW
		emit(model.Circuit{
			Label:         fmt.Sprintf("Equipment %s", dev.Name),
			Category:      model.CategorySpecificLoad,
			Voltage:       dev.Voltage,
			TotalLoad:     dev.PowerW,
			DesignCurrent: dev.PowerW / float64(dev.Voltage),
			FCA:           specificLoadFCA,
		})
	}

	return sched
}

// size selects conductor and breaker for c and sets its status.
func (d *Dimensioner) size(c *model.Circuit) {
	cond, err := SelectConductor(c.DesignCurrent, d.Settings.Insulation, d.Settings.Method, c.Category, c.FCT, c.FCA)
	c.RequiredAmpacity = cond.RequiredAmpacity
	if err != nil {
		c.Status = model.StatusError
		c.Fault = faultFor(err)
		return
	}
	c.Section = cond.Section
	c.CorrectedAmpacity = cond.CorrectedAmpacity

	breaker, err := SelectBreaker(c.DesignCurrent, c.CorrectedAmpacity)
	if err != nil {
		c.Status = model.StatusAdjust
		c.Fault = faultFor(err)
		return
	}
	c.Breaker = breaker
	c.Status = model.StatusOK
}

func faultFor(err error) model.Fault {
	switch {
	case errors.Is(err, ErrZeroDeratingFactor):
		return model.FaultZeroDerating
	case errors.Is(err, ErrSectionOutOfRange):
		return model.FaultSectionOutOfRange
	case errors.Is(err, ErrBreakerUnresolved):
		return model.FaultBreakerUnresolved
	}
	return model.Fault(err.Error())
}

// Dimension is a convenience wrapper around New(settings).Dimension(rooms).
func Dimension(rooms []model.Room, settings model.DesignSettings) model.Schedule {
	return New(settings).Dimension(rooms)
}
