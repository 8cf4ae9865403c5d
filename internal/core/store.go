package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"landingcore/pkg/domain"
)

type catalogState struct {
	areas    map[int]Area
	zones    map[int]Zone
	projects map[int]Project
	units    map[int]Unit
}

func newCatalogState() catalogState {
	return catalogState{
		areas:    make(map[int]Area),
		zones:    make(map[int]Zone),
		projects: make(map[int]Project),
		units:    make(map[int]Unit),
	}
}

func (s catalogState) clone() catalogState {
	cloned := newCatalogState()
	for k, v := range s.areas {
		cloned.areas[k] = v
	}
	for k, v := range s.zones {
		cloned.zones[k] = v
	}
	for k, v := range s.projects {
		cloned.projects[k] = domain.CloneProject(v)
	}
	for k, v := range s.units {
		cloned.units[k] = v
	}
	return cloned
}

func (s catalogState) sortedUnits(projectID int) []Unit {
	out := make([]Unit, 0, len(s.units))
	for _, u := range s.units {
		if projectID == 0 || u.ProjectID == projectID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ErrNotFound is returned when a catalog lookup fails.
type ErrNotFound struct {
	Entity EntityType
	ID     int
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// CatalogStore is an in-memory transactional store for master data.
type CatalogStore struct {
	mu    sync.RWMutex
	state catalogState
}

// NewCatalogStore constructs an empty store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{state: newCatalogState()}
}

// Import replaces the store contents with the catalog.
func (s *CatalogStore) Import(c Catalog) {
	next := newCatalogState()
	for _, a := range c.Areas {
		next.areas[a.ID] = a
	}
	for _, z := range c.Zones {
		next.zones[z.ID] = z
	}
	for _, p := range c.Projects {
		next.projects[p.ID] = domain.CloneProject(p)
	}
	for _, u := range c.Units {
		next.units[u.ID] = u
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Export returns the store contents as a catalog sorted by ID.
func (s *CatalogStore) Export() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return exportState(s.state)
}

func exportState(st catalogState) Catalog {
	var c Catalog
	for _, a := range st.areas {
		c.Areas = append(c.Areas, a)
	}
	for _, z := range st.zones {
		c.Zones = append(c.Zones, z)
	}
	for _, p := range st.projects {
		c.Projects = append(c.Projects, domain.CloneProject(p))
	}
	sort.Slice(c.Areas, func(i, j int) bool { return c.Areas[i].ID < c.Areas[j].ID })
	sort.Slice(c.Zones, func(i, j int) bool { return c.Zones[i].ID < c.Zones[j].ID })
	sort.Slice(c.Projects, func(i, j int) bool { return c.Projects[i].ID < c.Projects[j].ID })
	c.Units = st.sortedUnits(0)
	return c
}

// CatalogTx is a mutation set applied to a copy of the store state.
type CatalogTx struct {
	state catalogState
}

// CatalogView exposes a read-only snapshot of the catalog.
type CatalogView struct {
	state *catalogState
}

// RunInTransaction executes fn against a copy of the store state and commits
// it only when fn succeeds.
func (s *CatalogStore) RunInTransaction(ctx context.Context, fn func(tx *CatalogTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &CatalogTx{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *CatalogStore) View(ctx context.Context, fn func(CatalogView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(CatalogView{state: &snapshot})
}

// FindUnit looks up a unit within the transaction.
func (tx *CatalogTx) FindUnit(id int) (Unit, bool) {
	u, ok := tx.state.units[id]
	return u, ok
}

// Units returns every unit of a project (0 for all) within the transaction.
func (tx *CatalogTx) Units(projectID int) []Unit {
	return tx.state.sortedUnits(projectID)
}

// UpdateUnit mutates a unit using the provided mutator function.
func (tx *CatalogTx) UpdateUnit(id int, mutator func(*Unit) error) (Unit, error) {
	current, ok := tx.state.units[id]
	if !ok {
		return Unit{}, ErrNotFound{Entity: EntityUnit, ID: id}
	}
	if err := mutator(&current); err != nil {
		return Unit{}, err
	}
	if !current.Status.Valid() {
		return Unit{}, fmt.Errorf("unit %d: invalid status %q", id, current.Status)
	}
	if current.Price < 0 {
		return Unit{}, fmt.Errorf("unit %d: price must not be negative", id)
	}
	current.ID = id
	tx.state.units[id] = current
	return current, nil
}

// ReplaceUnits swaps the unit list for a fresh one.
func (tx *CatalogTx) ReplaceUnits(units []Unit) {
	tx.state.units = make(map[int]Unit, len(units))
	for _, u := range units {
		tx.state.units[u.ID] = u
	}
}

// FindProject looks up a project in the snapshot.
func (v CatalogView) FindProject(id int) (Project, bool) {
	p, ok := v.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return domain.CloneProject(p), true
}

// FindUnit looks up a unit in the snapshot.
func (v CatalogView) FindUnit(id int) (Unit, bool) {
	u, ok := v.state.units[id]
	return u, ok
}

// ListUnits returns the units of a project (0 for all) sorted by ID.
func (v CatalogView) ListUnits(projectID int) []Unit {
	return v.state.sortedUnits(projectID)
}

// Read helpers ---------------------------------------------------------------

// GetProject retrieves a project by ID from committed state.
func (s *CatalogStore) GetProject(id int) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return domain.CloneProject(p), true
}

// GetArea retrieves an area by ID.
func (s *CatalogStore) GetArea(id int) (Area, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.areas[id]
	return a, ok
}

// GetZone retrieves a zone by ID.
func (s *CatalogStore) GetZone(id int) (Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.state.zones[id]
	return z, ok
}

// GetUnit retrieves a unit by ID.
func (s *CatalogStore) GetUnit(id int) (Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.state.units[id]
	return u, ok
}

// ListProjects returns all projects sorted by ID.
func (s *CatalogStore) ListProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.state.projects))
	for _, p := range s.state.projects {
		out = append(out, domain.CloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListUnits returns the units of a project (0 for all) sorted by ID.
func (s *CatalogStore) ListUnits(projectID int) []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.sortedUnits(projectID)
}

// ProjectZones indexes the zone of every stored project.
func (s *CatalogStore) ProjectZones() ProjectZones {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(ProjectZones, len(s.state.projects))
	for id, p := range s.state.projects {
		out[id] = p.ZoneID
	}
	return out
}
