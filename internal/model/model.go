package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category is the kind of branch circuit a schedule row describes.
type Category int

const (
	CategoryLighting     Category = iota // Aggregate lighting circuit
	CategoryOutlet                       // General-purpose outlets (TUG)
	CategorySpecificLoad                 // Dedicated appliance circuit (TUE)
)

func (c Category) String() string {
	switch c {
	case CategoryLighting:
		return "lighting"
	case CategoryOutlet:
		return "outlet"
	case CategorySpecificLoad:
		return "specific-load"
	default:
		return "unknown"
	}
}

// LoadClass groups rooms whose outlets share circuits.
type LoadClass int

const (
	ClassGeneral        LoadClass = iota // Living rooms, bedrooms and anything unrecognized
	ClassWetExternal                     // Bathrooms and outdoor areas
	ClassKitchenService                  // Kitchens, pantries and laundries
)

func (c LoadClass) String() string {
	switch c {
	case ClassWetExternal:
		return "Bathroom & Exterior"
	case ClassKitchenService:
		return "Kitchen & Service"
	default:
		return "Living & Bedrooms"
	}
}

// Insulation is the conductor insulation material.
type Insulation string

const (
	InsulationPVC     Insulation = "PVC"
	InsulationEPRXLPE Insulation = "EPR_XLPE"
)

// Device is a fixed appliance that gets its own dedicated circuit.
type Device struct {
	Name    string  `json:"name"`
	PowerW  float64 `json:"power_w"`
	Voltage int     `json:"voltage"`
}

// Label returns the short text used in summaries, e.g. "Shower (5500 W)".
func (d Device) Label() string {
	return fmt.Sprintf("%s (%.0f W)", d.Name, d.PowerW)
}

// Room is one space entered by the designer. Outlet loads are not stored here;
// they are derived by the engine from the name and geometry.
type Room struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Width           float64 `json:"width"`  // m
	Length          float64 `json:"length"` // m
	LightingVoltage int     `json:"lighting_voltage"`
	OutletVoltage   int     `json:"outlet_voltage"`
	Device          *Device `json:"device,omitempty"`
}

func NewRoom(name string, width, length float64, lightingV, outletV int) Room {
	return Room{
		ID:              uuid.New().String()[:8],
		Name:            name,
		Width:           width,
		Length:          length,
		LightingVoltage: lightingV,
		OutletVoltage:   outletV,
	}
}

// Area returns width x length in m².
func (r Room) Area() float64 {
	return r.Width * r.Length
}

// Perimeter returns 2 x (width + length) in m.
func (r Room) Perimeter() float64 {
	return 2 * (r.Width + r.Length)
}

// Clone returns a copy that shares no pointers with r.
func (r Room) Clone() Room {
	cp := r
	if r.Device != nil {
		d := *r.Device
		cp.Device = &d
	}
	return cp
}

// Validate checks the room before it is handed to the engine.
func (r Room) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("room name is required"))
	}
	if r.Width <= 0 || r.Length <= 0 {
		errs = append(errs, fmt.Errorf("room %q: width and length must be positive", r.Name))
	}
	if !ValidVoltage(r.LightingVoltage) {
		errs = append(errs, fmt.Errorf("room %q: unsupported lighting voltage %d", r.Name, r.LightingVoltage))
	}
	if !ValidVoltage(r.OutletVoltage) {
		errs = append(errs, fmt.Errorf("room %q: unsupported outlet voltage %d", r.Name, r.OutletVoltage))
	}
	if r.Device != nil {
		if strings.TrimSpace(r.Device.Name) == "" {
			errs = append(errs, fmt.Errorf("room %q: device name is required", r.Name))
		}
		if r.Device.PowerW <= 0 {
			errs = append(errs, fmt.Errorf("room %q: device power must be positive", r.Name))
		}
		if !ValidVoltage(r.Device.Voltage) {
			errs = append(errs, fmt.Errorf("room %q: unsupported device voltage %d", r.Name, r.Device.Voltage))
		}
	}
	return errors.Join(errs...)
}

// Voltages are the nominal voltages accepted for rooms and devices.
var Voltages = []int{127, 220}

// ValidVoltage reports whether v is one of the nominal Voltages.
func ValidVoltage(v int) bool {
	for _, nv := range Voltages {
		if nv == v {
			return true
		}
	}
	return false
}

// CloneRooms returns a deep copy of a room slice.
func CloneRooms(rooms []Room) []Room {
	if rooms == nil {
		return nil
	}
	cp := make([]Room, len(rooms))
	for i, r := range rooms {
		cp[i] = r.Clone()
	}
	return cp
}

// Project ties everything together for save/load.
type Project struct {
	Name     string         `json:"name"`
	Rooms    []Room         `json:"rooms"`
	Settings DesignSettings `json:"settings"`
	Schedule *Schedule      `json:"schedule,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Rooms:    []Room{},
		Settings: DefaultSettings(),
	}
}
