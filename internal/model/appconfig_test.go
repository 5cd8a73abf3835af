package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultAmbientTempC != defaults.AmbientTempC {
		t.Errorf("AmbientTempC mismatch: config=%d settings=%d", cfg.DefaultAmbientTempC, defaults.AmbientTempC)
	}
	if cfg.DefaultInsulation != defaults.Insulation {
		t.Errorf("Insulation mismatch: config=%s settings=%s", cfg.DefaultInsulation, defaults.Insulation)
	}
	if cfg.DefaultMethod != defaults.Method {
		t.Errorf("Method mismatch: config=%s settings=%s", cfg.DefaultMethod, defaults.Method)
	}
	if cfg.DefaultOutletGrouping != defaults.OutletGrouping {
		t.Errorf("OutletGrouping mismatch: config=%d settings=%d", cfg.DefaultOutletGrouping, defaults.OutletGrouping)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultAmbientTempC = 40
	cfg.DefaultInsulation = InsulationEPRXLPE
	cfg.DefaultOutletGrouping = 2

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.AmbientTempC != 40 {
		t.Errorf("expected AmbientTempC=40, got %d", s.AmbientTempC)
	}
	if s.Insulation != InsulationEPRXLPE {
		t.Errorf("expected EPR_XLPE, got %s", s.Insulation)
	}
	if s.OutletGrouping != 2 {
		t.Errorf("expected OutletGrouping=2, got %d", s.OutletGrouping)
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("/a.csz")
	cfg.AddRecentProject("/b.csz")
	cfg.AddRecentProject("/a.csz")

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "/a.csz" {
		t.Errorf("expected /a.csz first, got %s", cfg.RecentProjects[0])
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentProject(string(rune('a'+i)) + ".csz")
	}
	if len(cfg.RecentProjects) != maxRecentProjects {
		t.Errorf("expected list capped at %d, got %d", maxRecentProjects, len(cfg.RecentProjects))
	}
}
