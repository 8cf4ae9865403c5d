package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"landingcore/pkg/domain"
)

// DefaultSeed is used by Generate when seed is zero.
const DefaultSeed uint64 = 20250101

// Generated unit counts per project.
var generatedUnitCounts = []struct{ projectID, count int }{
	{1, 150},
	{2, 80},
	{3, 250},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Areas returns the reference areas.
func Areas() []domain.Area {
	return []domain.Area{
		{ID: 1, NameEN: "Dubai Marina", NameAR: "مرسى دبي"},
		{ID: 2, NameEN: "Downtown Dubai", NameAR: "وسط مدينة دبي"},
		{ID: 3, NameEN: "Palm Jumeirah"},
		{ID: 4, NameEN: "Business Bay"},
		{ID: 5, NameEN: "JBR"},
	}
}

// Zones returns the reference zones.
func Zones() []domain.Zone {
	return []domain.Zone{
		{ID: 1, AreaID: 1, NameEN: "Marina Walk"},
		{ID: 2, AreaID: 1, NameEN: "Marina Promenade"},
		{ID: 3, AreaID: 2, NameEN: "DIFC"},
		{ID: 4, AreaID: 2, NameEN: "Opera District"},
		{ID: 5, AreaID: 3, NameEN: "Palm West Beach"},
		{ID: 6, AreaID: 4, NameEN: "Business Bay Central"},
		{ID: 7, AreaID: 5, NameEN: "JBR The Walk"},
	}
}

// Projects returns the reference projects.
func Projects() []domain.Project {
	return []domain.Project{
		{
			ID:               1,
			Name:             "Marina Heights Tower",
			AreaID:           1,
			ZoneID:           1,
			CompletionStatus: domain.CompletionUnderConstruction,
			CompletionDate:   date(2025, time.December, 31),
			MinPrice:         800_000,
			MaxPrice:         2_500_000,
			TotalUnits:       200,
			AvailableUnits:   35,
			CommonAreaRatio:  1.2,
			Developer:        "Emaar Properties",
			Amenities:        []string{"Swimming Pool", "Gym", "Parking", "Security", "Concierge"},
			ImageURL:         "https://images.pexels.com/photos/1732414/pexels-photo-1732414.jpeg",
		},
		{
			ID:               2,
			Name:             "Downtown Luxury Residences",
			AreaID:           2,
			ZoneID:           3,
			CompletionStatus: domain.CompletionOffPlan,
			CompletionDate:   date(2026, time.June, 30),
			MinPrice:         1_200_000,
			MaxPrice:         4_000_000,
			TotalUnits:       150,
			AvailableUnits:   25,
			Developer:        "DAMAC Properties",
			Amenities:        []string{"Rooftop Pool", "Spa", "Valet Parking", "Business Center", "Kids Play Area"},
			ImageURL:         "https://images.pexels.com/photos/3935320/pexels-photo-3935320.jpeg",
		},
		{
			ID:               3,
			Name:             "Creekfront Residences",
			AreaID:           4,
			ZoneID:           6,
			CompletionStatus: domain.CompletionReady,
			CompletionDate:   date(2024, time.January, 15),
			MinPrice:         950_000,
			MaxPrice:         3_200_000,
			TotalUnits:       250,
			AvailableUnits:   210,
			Developer:        "Sobha Realty",
			Amenities:        []string{"Swimming Pool", "Gym", "Security", "Kids Play Area", "Retail Outlets"},
			ImageURL:         "https://images.pexels.com/photos/1643383/pexels-photo-1643383.jpeg",
		},
	}
}

// GenerateUnits produces count units for projectID from rnd. IDs are
// projectID*1000+i for i in 1..count.
func GenerateUnits(rnd *rand.Rand, projectID, count int) []domain.Unit {
	units := make([]domain.Unit, 0, count)
	for i := 1; i <= count; i++ {
		bedrooms := rnd.IntN(4)
		kind := domain.PropertyApartment
		if bedrooms == 0 {
			kind = domain.PropertyStudio
		}
		area := 400 + bedrooms*300 + rnd.IntN(100)
		price := 800_000 + area*500 + bedrooms*150_000

		status := domain.UnitSold
		floor := 1 + rnd.IntN(40)
		if rnd.Float64() < 0.85 {
			status = domain.UnitAvailable
		}
		phase := "A"
		if i%3 == 0 {
			phase = "B"
		}
		units = append(units, domain.Unit{
			ID:           projectID*1000 + i,
			ProjectID:    projectID,
			Number:       fmt.Sprintf("%c%d0%d", rune('A'+i%26), projectID, i),
			Price:        math.Round(float64(price)/1000) * 1000,
			Bedrooms:     bedrooms,
			PropertyType: kind,
			AreaSqft:     float64(area),
			FloorLevel:   floor,
			Status:       status,
			DemandStatus: domain.DemandNormal,
			HasBalcony:   rnd.Float64() > 0.4,
			HasParking:   rnd.Float64() > 0.2,
			Phase:        phase,
		})
	}
	return units
}

// Generate builds the reference catalog with units drawn from a PCG source
// seeded by seed, so equal seeds give equal catalogs.
func Generate(seed uint64) domain.Catalog {
	if seed == 0 {
		seed = DefaultSeed
	}
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	c := domain.Catalog{
		Areas:    Areas(),
		Zones:    Zones(),
		Projects: Projects(),
	}
	for _, g := range generatedUnitCounts {
		c.Units = append(c.Units, GenerateUnits(rnd, g.projectID, g.count)...)
	}
	return c
}
