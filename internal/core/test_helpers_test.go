package core

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"landingcore/pkg/domain"
)

var fixtureNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// fixtureCatalog holds three projects: 1 and 2 share zone 1, 3 sits in zone 2.
func fixtureCatalog() Catalog {
	return Catalog{
		Areas: []Area{
			{ID: 1, NameEN: "Dubai Marina", NameAR: "مرسى دبي"},
			{ID: 2, NameEN: "Downtown Dubai"},
		},
		Zones: []Zone{
			{ID: 1, AreaID: 1, NameEN: "Marina Walk"},
			{ID: 2, AreaID: 1, NameEN: "Marina Promenade"},
		},
		Projects: []Project{
			{
				ID:               1,
				Name:             "Marina Heights Tower",
				AreaID:           1,
				ZoneID:           1,
				CompletionStatus: domain.CompletionOffPlan,
				CompletionDate:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
				TotalUnits:       12,
				AvailableUnits:   3,
				Amenities:        []string{"Gym"},
			},
			{ID: 2, Name: "Downtown Luxury Residences", AreaID: 2, ZoneID: 1, CompletionStatus: domain.CompletionReady, TotalUnits: 100, AvailableUnits: 1},
			{ID: 3, Name: "Marina Promenade Villas", AreaID: 1, ZoneID: 2, CompletionStatus: domain.CompletionReady, TotalUnits: 50, AvailableUnits: 1},
		},
		Units: []Unit{
			{ID: 1001, ProjectID: 1, Number: "A101", Price: 1_000_000, Bedrooms: 1, PropertyType: domain.PropertyApartment, AreaSqft: 750, FloorLevel: 2, Status: UnitAvailable, DemandStatus: domain.DemandNormal, HasBalcony: true, HasParking: true, Phase: "A"},
			{ID: 1002, ProjectID: 1, Number: "A102", Price: 1_500_000, Bedrooms: 2, PropertyType: domain.PropertyApartment, AreaSqft: 1100, FloorLevel: 10, Status: UnitAvailable, DemandStatus: domain.DemandNormal, HasBalcony: true, Phase: "A"},
			{ID: 1003, ProjectID: 1, Number: "B103", Price: 1_600_000, Bedrooms: 2, PropertyType: domain.PropertyApartment, AreaSqft: 1150, FloorLevel: 12, Status: UnitAvailable, DemandStatus: domain.DemandNormal, HasParking: true, Phase: "B"},
			{ID: 1004, ProjectID: 1, Number: "S104", Price: 800_000, Bedrooms: 0, PropertyType: domain.PropertyStudio, AreaSqft: 450, FloorLevel: 5, Status: UnitSold, DemandStatus: domain.DemandNormal, Phase: "A"},
			{ID: 2001, ProjectID: 2, Number: "D201", Price: 3_500_000, Bedrooms: 3, PropertyType: domain.PropertyApartment, AreaSqft: 2100, FloorLevel: 30, Status: UnitAvailable, DemandStatus: domain.DemandNormal, Phase: "A"},
			{ID: 3001, ProjectID: 3, Number: "C301", Price: 2_000_000, Bedrooms: 3, PropertyType: domain.PropertyVilla, AreaSqft: 2400, FloorLevel: 1, Status: UnitAvailable, DemandStatus: domain.DemandNormal, Phase: "A"},
		},
	}
}

func fixtureProject(t *testing.T, c Catalog, id int) Project {
	t.Helper()
	for _, p := range c.Projects {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("fixture project %d missing", id)
	return Project{}
}

func fixtureUnits(t *testing.T, c Catalog, ids ...int) []Unit {
	t.Helper()
	byID := make(map[int]Unit, len(c.Units))
	for _, u := range c.Units {
		byID[u.ID] = u
	}
	out := make([]Unit, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			t.Fatalf("fixture unit %d missing", id)
		}
		out = append(out, u)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n-%d", n)
	}
}

// newFixtureSession returns a session over the fixture catalog with a fixed
// clock and predictable notification IDs.
func newFixtureSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	base := []SessionOption{
		WithSessionClock(func() time.Time { return fixtureNow }),
		WithNotificationIDs(sequentialIDs()),
	}
	s := NewSession(NewCatalogStore(), append(base, opts...)...)
	if err := s.LoadCatalog(context.Background(), fixtureCatalog()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return s
}

// fixedRandom always returns the same draws.
type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) IntN(n int) int { return r.n % n }
