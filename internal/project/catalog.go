package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// SaveCatalog writes the appliance catalog to the specified JSON file.
func SaveCatalog(path string, c model.Catalog) error {
	return writeJSON(path, c)
}

// LoadCatalog reads the appliance catalog from the specified JSON file.
// If the file does not exist, it writes and returns the default catalog.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return model.Catalog{}, err
	}
	var c model.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return c, nil
}
