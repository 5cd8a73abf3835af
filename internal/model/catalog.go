package model

import (
	"strings"

	"github.com/google/uuid"
)

// DevicePreset is a reusable fixed-appliance definition.
type DevicePreset struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	PowerW  float64 `json:"power_w"`
	Voltage int     `json:"voltage"`
}

// NewDevicePreset creates a new DevicePreset with a generated ID.
func NewDevicePreset(name string, powerW float64, voltage int) DevicePreset {
	return DevicePreset{
		ID:      uuid.New().String()[:8],
		Name:    name,
		PowerW:  powerW,
		Voltage: voltage,
	}
}

// ToDevice converts the preset into a Device for a room.
func (p DevicePreset) ToDevice() Device {
	return Device{Name: p.Name, PowerW: p.PowerW, Voltage: p.Voltage}
}

// Catalog holds the user's saved appliance presets.
type Catalog struct {
	Devices []DevicePreset `json:"devices"`
}

// DefaultCatalog returns a catalog with common residential appliances.
func DefaultCatalog() Catalog {
	return Catalog{
		Devices: []DevicePreset{
			NewDevicePreset("Chuveiro", 5500, 220),
			NewDevicePreset("Torneira Eletrica", 4500, 220),
			NewDevicePreset("Forno Eletrico", 4000, 220),
			NewDevicePreset("Ar Condicionado 12000 BTU", 1400, 220),
			NewDevicePreset("Micro-ondas", 1500, 127),
			NewDevicePreset("Maquina de Lavar", 1000, 127),
			NewDevicePreset("Lava-loucas", 1500, 220),
		},
	}
}

// FindByName returns the preset whose name matches case-insensitively, or nil.
func (c *Catalog) FindByName(name string) *DevicePreset {
	key := strings.ToLower(strings.TrimSpace(name))
	for i := range c.Devices {
		if strings.ToLower(c.Devices[i].Name) == key {
			return &c.Devices[i]
		}
	}
	return nil
}

// Add appends a preset, replacing one with the same name.
func (c *Catalog) Add(p DevicePreset) {
	if existing := c.FindByName(p.Name); existing != nil {
		id := existing.ID
		*existing = p
		existing.ID = id
		return
	}
	c.Devices = append(c.Devices, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (c *Catalog) Remove(id string) bool {
	for i, d := range c.Devices {
		if d.ID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			return true
		}
	}
	return false
}
