package fleet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/supplynet-dashboard/pkg/types"
)

// Vehicle is a delivery vehicle shown on the map.
type Vehicle struct {
	ID          string         `yaml:"id" json:"id"`
	Position    types.GeoPoint `yaml:"position" json:"position"`
	Status      string         `yaml:"status" json:"status"`
	Destination string         `yaml:"destination" json:"destination"`
}

// Fleet is the set of vehicles loaded from the fleet file.
type Fleet struct {
	Version  int       `yaml:"version"`
	Vehicles []Vehicle `yaml:"vehicles"`
}

var inactiveStatuses = map[string]struct{}{
	"idle":    {},
	"offline": {},
	"parked":  {},
}

// Active reports whether the vehicle counts toward the active-vehicles badge.
func (v Vehicle) Active() bool {
	_, inactive := inactiveStatuses[strings.ToLower(strings.TrimSpace(v.Status))]
	return !inactive
}

// ActiveCount counts active vehicles.
func (f *Fleet) ActiveCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, v := range f.Vehicles {
		if v.Active() {
			n++
		}
	}
	return n
}

// List returns a copy of the vehicles, never nil.
func (f *Fleet) List() []Vehicle {
	if f == nil {
		return []Vehicle{}
	}
	out := make([]Vehicle, len(f.Vehicles))
	copy(out, f.Vehicles)
	return out
}

// Load reads a fleet file. An empty path yields an empty fleet.
func Load(path string) (*Fleet, error) {
	if strings.TrimSpace(path) == "" {
		return &Fleet{Version: 1}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading fleet file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates fleet YAML.
func Parse(data []byte) (*Fleet, error) {
	var f Fleet
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loading fleet file: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("loading fleet file: %w", err)
	}
	return &f, nil
}

func validate(f *Fleet) error {
	if f.Version == 0 {
		f.Version = 1
	}
	if f.Version != 1 {
		return fmt.Errorf("unsupported version: %d", f.Version)
	}
	seen := make(map[string]struct{}, len(f.Vehicles))
	for i, v := range f.Vehicles {
		id := strings.TrimSpace(v.ID)
		if id == "" {
			return fmt.Errorf("vehicle %d id is required", i)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("duplicate vehicle id: %s", id)
		}
		seen[id] = struct{}{}
		if !v.Position.Valid() {
			return fmt.Errorf("vehicle %s position %s is invalid", id, v.Position)
		}
	}
	return nil
}
