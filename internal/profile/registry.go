package profile

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry is a read-only, ordered collection of profiles. The zero value is
// not useful; obtain one via Builtin or Load.
type Registry struct {
	profiles []*Profile
}

// Builtin returns a registry holding the compiled-in profiles.
func Builtin() *Registry {
	return &Registry{profiles: builtins}
}

// NewRegistry builds a registry from an explicit profile list, in order.
func NewRegistry(profiles ...*Profile) *Registry {
	return &Registry{profiles: profiles}
}

// List returns the profiles in declaration order. The returned slice must be
// treated as read-only.
func (r *Registry) List() []*Profile {
	return r.profiles
}

// Find returns the profile with the given name.
func (r *Registry) Find(name string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown profile %q", name)
}

// profileFile is the YAML schema for a user-supplied profile overlay.
type profileFile struct {
	Version  int           `yaml:"version"`
	Profiles []profileYAML `yaml:"profiles"`
}

type profileYAML struct {
	Name        string   `yaml:"name"`
	Pretty      string   `yaml:"pretty"`
	Baudrate    uint32   `yaml:"baudrate"`
	MD5Key      string   `yaml:"md5_key"`
	DefaultKeys []string `yaml:"default_keys"`
}

// Load returns a registry holding the built-in profiles followed by the
// profiles defined in the given YAML overlay file. Overlay profiles are
// appended after the built-ins, so auto-detection tries the built-ins first.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported profile file version: %d (expected 1)", file.Version)
	}

	reg := &Registry{profiles: append([]*Profile{}, builtins...)}

	for _, py := range file.Profiles {
		if py.Name == "" {
			return nil, fmt.Errorf("profile with empty name in %s", path)
		}
		if _, err := reg.Find(py.Name); err == nil {
			return nil, fmt.Errorf("duplicate profile name %q", py.Name)
		}

		p := &Profile{
			Name:     py.Name,
			Pretty:   py.Pretty,
			Baudrate: py.Baudrate,
		}

		if py.MD5Key != "" {
			key, err := hex.DecodeString(py.MD5Key)
			if err != nil {
				return nil, fmt.Errorf("profile %q: bad md5_key: %w", py.Name, err)
			}
			if len(key) > 16 {
				return nil, fmt.Errorf("profile %q: md5_key longer than 16 bytes", py.Name)
			}
			p.MD5Key = key
		}

		for i, ks := range py.DefaultKeys {
			key, err := hex.DecodeString(ks)
			if err != nil {
				return nil, fmt.Errorf("profile %q: bad default_keys[%d]: %w", py.Name, i, err)
			}
			if len(key) != 32 {
				return nil, fmt.Errorf("profile %q: default_keys[%d] must be 32 bytes, got %d",
					py.Name, i, len(key))
			}
			p.DefaultKeys = append(p.DefaultKeys, key)
		}

		reg.profiles = append(reg.profiles, p)
	}

	return reg, nil
}
