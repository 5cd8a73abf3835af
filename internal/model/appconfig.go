package model

// AppConfig holds user preferences and the defaults applied to new projects.
type AppConfig struct {
	// Default design settings applied to new projects
	DefaultAmbientTempC     int        `json:"default_ambient_temp_c"`
	DefaultInsulation       Insulation `json:"default_insulation"`
	DefaultMethod           string     `json:"default_method"`
	DefaultLightingGrouping int        `json:"default_lighting_grouping"`
	DefaultOutletGrouping   int        `json:"default_outlet_grouping"`

	// Defaults offered when a room is added without explicit voltages
	DefaultLightingVoltage int `json:"default_lighting_voltage"`
	DefaultOutletVoltage   int `json:"default_outlet_voltage"`
	DefaultDeviceVoltage   int `json:"default_device_voltage"`

	RecentProjects []string `json:"recent_projects"`
}

// maxRecentProjects bounds the RecentProjects list.
const maxRecentProjects = 10

// DefaultAppConfig returns an AppConfig populated with defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAmbientTempC:     defaults.AmbientTempC,
		DefaultInsulation:       defaults.Insulation,
		DefaultMethod:           defaults.Method,
		DefaultLightingGrouping: defaults.LightingGrouping,
		DefaultOutletGrouping:   defaults.OutletGrouping,
		DefaultLightingVoltage:  127,
		DefaultOutletVoltage:    127,
		DefaultDeviceVoltage:    220,
		RecentProjects:          []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a DesignSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *DesignSettings) {
	s.AmbientTempC = c.DefaultAmbientTempC
	s.Insulation = c.DefaultInsulation
	s.Method = c.DefaultMethod
	s.LightingGrouping = c.DefaultLightingGrouping
	s.OutletGrouping = c.DefaultOutletGrouping
}

// AddRecentProject moves path to the front of RecentProjects.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}
