// Package file reads and writes catalog snapshots as YAML documents.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"landingcore/pkg/domain"
)

// Source is a catalog source backed by a single YAML file.
type Source struct {
	path string
}

// New returns a source reading path. The file is not opened until Load.
func New(path string) *Source { return &Source{path: path} }

// Path returns the backing file path.
func (s *Source) Path() string { return s.path }

// Load implements catalog.Source.
func (s *Source) Load(context.Context) (domain.Catalog, error) {
	return Read(s.path)
}

// Import implements catalog.Importer by rewriting the whole file.
func (s *Source) Import(_ context.Context, c domain.Catalog) error {
	return Write(s.path, c)
}

// Driver implements catalog.Source.
func (s *Source) Driver() string { return "file" }

// Close implements catalog.Source.
func (s *Source) Close() error { return nil }

// Read decodes the catalog at path and checks unit and zone references.
func Read(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := checkReferences(c); err != nil {
		return domain.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Write encodes c to path, creating parent directories.
func Write(path string, c domain.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func checkReferences(c domain.Catalog) error {
	zones := make(map[int]struct{}, len(c.Zones))
	for _, z := range c.Zones {
		zones[z.ID] = struct{}{}
	}
	projects := make(map[int]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if _, ok := projects[p.ID]; ok {
			return fmt.Errorf("duplicate project %d", p.ID)
		}
		if _, ok := zones[p.ZoneID]; !ok && p.ZoneID != 0 {
			return fmt.Errorf("project %d references unknown zone %d", p.ID, p.ZoneID)
		}
		projects[p.ID] = struct{}{}
	}
	units := make(map[int]struct{}, len(c.Units))
	for _, u := range c.Units {
		if _, ok := units[u.ID]; ok {
			return fmt.Errorf("duplicate unit %d", u.ID)
		}
		if _, ok := projects[u.ProjectID]; !ok {
			return fmt.Errorf("unit %d references unknown project %d", u.ID, u.ProjectID)
		}
		units[u.ID] = struct{}{}
	}
	return nil
}
