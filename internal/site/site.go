// Package site describes the existing site an urban project is created on.
// Site data is read-only input for the wizard.
package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/urbanwizard/internal/step"
)

// NatureFriche is the nature of a brownfield site.
const NatureFriche = "FRICHE"

// Data is the subset of site information the wizard consumes.
type Data struct {
	Name                    string                    `yaml:"name"`
	SurfaceArea             float64                   `yaml:"surface_area"`
	Nature                  string                    `yaml:"nature"`
	HasContaminatedSoils    bool                      `yaml:"has_contaminated_soils"`
	ContaminatedSoilSurface float64                   `yaml:"contaminated_soil_surface"`
	Owner                   *step.Stakeholder         `yaml:"owner,omitempty"`
	SoilsDistribution       map[step.SoilType]float64 `yaml:"soils_distribution,omitempty"`
}

// IsFriche reports whether the site is a brownfield.
func (d Data) IsFriche() bool { return d.Nature == NatureFriche }

// Load reads site data from a YAML document.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("site: read %s: %w", path, err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("site: parse %s: %w", path, err)
	}
	if err := data.validate(); err != nil {
		return Data{}, fmt.Errorf("site: %s: %w", path, err)
	}
	return data, nil
}

func (d Data) validate() error {
	if d.SurfaceArea < 0 {
		return fmt.Errorf("surface_area must be >= 0")
	}
	if d.ContaminatedSoilSurface < 0 {
		return fmt.Errorf("contaminated_soil_surface must be >= 0")
	}
	if d.ContaminatedSoilSurface > 0 && !d.HasContaminatedSoils {
		return fmt.Errorf("contaminated_soil_surface set but has_contaminated_soils is false")
	}
	return nil
}
