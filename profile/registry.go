package profile

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pevans/ussdcodes/internal/logger"
	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embedded embed.FS

// ErrUnknownCountry is returned when no profile matches a lookup.
var ErrUnknownCountry = errors.New("unknown country")

// Registry holds the loaded country profiles keyed by prefix.
type Registry struct {
	profiles map[string]*Profile
}

// Load reads the embedded profiles and then any *.yaml files in dir, which
// replace embedded profiles sharing their prefix. An empty or missing dir
// loads the embedded set only.
func Load(dir string) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}

	if err := r.loadFS(embedded, "profiles"); err != nil {
		return nil, err
	}

	if dir == "" {
		return r, nil
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.New("profile").WithField("dir", dir).Warn("profile directory not found, using built-in profiles")
		return r, nil
	}

	if err := r.loadFS(os.DirFS(dir), "."); err != nil {
		return nil, err
	}

	logger.New("profile").WithField("dir", dir).WithField("profiles", r.Len()).Debug("loaded profiles")

	return r, nil
}

func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return fmt.Errorf("failed to read profile %s: %w", entry.Name(), err)
		}

		p, err := Parse(data)
		if err != nil {
			return fmt.Errorf("failed to load profile %s: %w", entry.Name(), err)
		}

		r.Add(p)
	}

	return nil
}

// Parse decodes and validates a single YAML profile. Unknown fields are
// rejected.
func Parse(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Add registers p, replacing any profile with the same prefix.
func (r *Registry) Add(p *Profile) {
	r.profiles[p.Prefix] = p
}

// Get finds a profile by prefix or country name, ignoring case.
func (r *Registry) Get(name string) (*Profile, error) {
	k := key(name)
	for _, p := range r.profiles {
		if key(p.Prefix) == k || key(p.Country) == k {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, name)
}

// All returns every profile sorted by prefix.
func (r *Registry) All() []*Profile {
	all := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		all = append(all, p)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Prefix < all[j].Prefix
	})

	return all
}

// Len returns the number of loaded profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
