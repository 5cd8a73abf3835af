package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// SaveProject writes a project, including its last schedule, as JSON.
func SaveProject(path string, p model.Project) error {
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// LoadProject reads a project file. Missing settings fall back to
// DefaultSettings and every room is validated.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Rooms == nil {
		p.Rooms = []model.Room{}
	}
	if err := p.Settings.Validate(); err != nil {
		return model.Project{}, fmt.Errorf("invalid project settings: %w", err)
	}
	for _, r := range p.Rooms {
		if err := r.Validate(); err != nil {
			return model.Project{}, fmt.Errorf("invalid project room: %w", err)
		}
	}
	return p, nil
}
