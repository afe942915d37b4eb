package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StackLoad/internal/model"
)

// DefaultProfilesPath returns the default file path for custom container profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "containers.json")
}

// BuiltInProfiles returns the containers that ship with the application.
func BuiltInProfiles() []model.ContainerSpec {
	return []model.ContainerSpec{model.PalletSpec(), model.TruckSpec()}
}

// SaveContainerProfiles saves custom container profiles to a JSON file.
func SaveContainerProfiles(path string, profiles []model.ContainerSpec) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadContainerProfiles loads custom container profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadContainerProfiles(path string) ([]model.ContainerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ContainerSpec{}, nil
		}
		return nil, err
	}

	var profiles []model.ContainerSpec
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if profiles == nil {
		profiles = []model.ContainerSpec{}
	}
	return profiles, nil
}

// FindProfile looks a profile up by name, ignoring case. Custom profiles
// shadow the built-in ones.
func FindProfile(custom []model.ContainerSpec, name string) (model.ContainerSpec, bool) {
	for _, list := range [][]model.ContainerSpec{custom, BuiltInProfiles()} {
		for _, p := range list {
			if strings.EqualFold(p.Name, name) {
				return p.Clone(), true
			}
		}
	}
	return model.ContainerSpec{}, false
}

// ExportProfile exports a single container profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.ContainerSpec) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single container profile from a JSON file.
func ImportProfile(path string) (model.ContainerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ContainerSpec{}, err
	}

	var profile model.ContainerSpec
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.ContainerSpec{}, err
	}

	if profile.Name == "" {
		return model.ContainerSpec{}, errors.New("imported profile has no name")
	}
	if err := profile.Validate(); err != nil {
		return model.ContainerSpec{}, err
	}
	return profile, nil
}
