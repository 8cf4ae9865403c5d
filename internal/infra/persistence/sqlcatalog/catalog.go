package sqlcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"landingcore/pkg/domain"
)

// DateLayout is the storage format of project completion dates.
const DateLayout = "2006-01-02"

type projectRow struct {
	ID               int     `db:"project_id"`
	Name             string  `db:"name"`
	AreaID           int     `db:"area_id"`
	ZoneID           int     `db:"zone_id"`
	CompletionStatus string  `db:"completion_status"`
	CompletionDate   string  `db:"completion_date"`
	MinPrice         float64 `db:"min_price"`
	MaxPrice         float64 `db:"max_price"`
	TotalUnits       int     `db:"total_units"`
	AvailableUnits   int     `db:"available_units"`
	CommonAreaRatio  float64 `db:"common_area_ratio"`
	Developer        string  `db:"developer"`
	AmenitiesJSON    string  `db:"amenities_json"`
	ImageURL         string  `db:"image_url"`
}

func (r projectRow) project() (domain.Project, error) {
	p := domain.Project{
		ID:               r.ID,
		Name:             r.Name,
		AreaID:           r.AreaID,
		ZoneID:           r.ZoneID,
		CompletionStatus: domain.CompletionStatus(r.CompletionStatus),
		MinPrice:         r.MinPrice,
		MaxPrice:         r.MaxPrice,
		TotalUnits:       r.TotalUnits,
		AvailableUnits:   r.AvailableUnits,
		CommonAreaRatio:  r.CommonAreaRatio,
		Developer:        r.Developer,
		ImageURL:         r.ImageURL,
	}
	if r.CompletionDate != "" {
		t, err := time.Parse(DateLayout, r.CompletionDate)
		if err != nil {
			return domain.Project{}, fmt.Errorf("project %d completion date: %w", r.ID, err)
		}
		p.CompletionDate = t
	}
	if r.AmenitiesJSON != "" {
		if err := json.Unmarshal([]byte(r.AmenitiesJSON), &p.Amenities); err != nil {
			return domain.Project{}, fmt.Errorf("project %d amenities: %w", r.ID, err)
		}
	}
	return p, nil
}

func newProjectRow(p domain.Project) (projectRow, error) {
	amenities, err := json.Marshal(append([]string{}, p.Amenities...))
	if err != nil {
		return projectRow{}, err
	}
	row := projectRow{
		ID:               p.ID,
		Name:             p.Name,
		AreaID:           p.AreaID,
		ZoneID:           p.ZoneID,
		CompletionStatus: string(p.CompletionStatus),
		MinPrice:         p.MinPrice,
		MaxPrice:         p.MaxPrice,
		TotalUnits:       p.TotalUnits,
		AvailableUnits:   p.AvailableUnits,
		CommonAreaRatio:  p.CommonAreaRatio,
		Developer:        p.Developer,
		AmenitiesJSON:    string(amenities),
		ImageURL:         p.ImageURL,
	}
	if !p.CompletionDate.IsZero() {
		row.CompletionDate = p.CompletionDate.Format(DateLayout)
	}
	return row, nil
}

const (
	selectAreas    = `SELECT area_id, name_en, name_ar FROM areas ORDER BY area_id`
	selectZones    = `SELECT zone_id, area_id, name_en, name_ar FROM zones ORDER BY zone_id`
	selectProjects = `SELECT project_id, name, area_id, zone_id, completion_status, completion_date, min_price, max_price, total_units, available_units, common_area_ratio, developer, amenities_json, image_url FROM projects ORDER BY project_id`
	selectUnits    = `SELECT unit_id, project_id, unit_number, price, bedrooms, property_type, area_sqft, floor_level, status, demand_status, has_balcony, has_parking, phase, image_url FROM units ORDER BY unit_id`

	upsertArea    = `INSERT INTO areas (area_id, name_en, name_ar) VALUES (?, ?, ?) ON CONFLICT (area_id) DO UPDATE SET name_en = excluded.name_en, name_ar = excluded.name_ar`
	upsertZone    = `INSERT INTO zones (zone_id, area_id, name_en, name_ar) VALUES (?, ?, ?, ?) ON CONFLICT (zone_id) DO UPDATE SET area_id = excluded.area_id, name_en = excluded.name_en, name_ar = excluded.name_ar`
	upsertProject = `INSERT INTO projects (project_id, name, area_id, zone_id, completion_status, completion_date, min_price, max_price, total_units, available_units, common_area_ratio, developer, amenities_json, image_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (project_id) DO UPDATE SET name = excluded.name, area_id = excluded.area_id, zone_id = excluded.zone_id, completion_status = excluded.completion_status, completion_date = excluded.completion_date, min_price = excluded.min_price, max_price = excluded.max_price, total_units = excluded.total_units, available_units = excluded.available_units, common_area_ratio = excluded.common_area_ratio, developer = excluded.developer, amenities_json = excluded.amenities_json, image_url = excluded.image_url`
	upsertUnit    = `INSERT INTO units (unit_id, project_id, unit_number, price, bedrooms, property_type, area_sqft, floor_level, status, demand_status, has_balcony, has_parking, phase, image_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (unit_id) DO UPDATE SET project_id = excluded.project_id, unit_number = excluded.unit_number, price = excluded.price, bedrooms = excluded.bedrooms, property_type = excluded.property_type, area_sqft = excluded.area_sqft, floor_level = excluded.floor_level, status = excluded.status, demand_status = excluded.demand_status, has_balcony = excluded.has_balcony, has_parking = excluded.has_parking, phase = excluded.phase, image_url = excluded.image_url`
)

// Load reads the full catalog.
func Load(ctx context.Context, db *sqlx.DB) (domain.Catalog, error) {
	var c domain.Catalog
	if err := db.SelectContext(ctx, &c.Areas, selectAreas); err != nil {
		return domain.Catalog{}, fmt.Errorf("select areas: %w", err)
	}
	if err := db.SelectContext(ctx, &c.Zones, selectZones); err != nil {
		return domain.Catalog{}, fmt.Errorf("select zones: %w", err)
	}
	var rows []projectRow
	if err := db.SelectContext(ctx, &rows, selectProjects); err != nil {
		return domain.Catalog{}, fmt.Errorf("select projects: %w", err)
	}
	for _, r := range rows {
		p, err := r.project()
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Projects = append(c.Projects, p)
	}
	if err := db.SelectContext(ctx, &c.Units, selectUnits); err != nil {
		return domain.Catalog{}, fmt.Errorf("select units: %w", err)
	}
	return c, nil
}

// Import upserts every catalog record in a single transaction.
func Import(ctx context.Context, db *sqlx.DB, c domain.Catalog) (retErr error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, a := range c.Areas {
		if _, err := tx.ExecContext(ctx, tx.Rebind(upsertArea), a.ID, a.NameEN, a.NameAR); err != nil {
			return fmt.Errorf("upsert area %d: %w", a.ID, err)
		}
	}
	for _, z := range c.Zones {
		if _, err := tx.ExecContext(ctx, tx.Rebind(upsertZone), z.ID, z.AreaID, z.NameEN, z.NameAR); err != nil {
			return fmt.Errorf("upsert zone %d: %w", z.ID, err)
		}
	}
	for _, p := range c.Projects {
		r, err := newProjectRow(p)
		if err != nil {
			return fmt.Errorf("encode project %d: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(upsertProject),
			r.ID, r.Name, r.AreaID, r.ZoneID, r.CompletionStatus, r.CompletionDate,
			r.MinPrice, r.MaxPrice, r.TotalUnits, r.AvailableUnits, r.CommonAreaRatio,
			r.Developer, r.AmenitiesJSON, r.ImageURL); err != nil {
			return fmt.Errorf("upsert project %d: %w", p.ID, err)
		}
	}
	for _, u := range c.Units {
		if _, err := tx.ExecContext(ctx, tx.Rebind(upsertUnit),
			u.ID, u.ProjectID, u.Number, u.Price, u.Bedrooms, string(u.PropertyType),
			u.AreaSqft, u.FloorLevel, string(u.Status), string(u.DemandStatus),
			u.HasBalcony, u.HasParking, u.Phase, u.ImageURL); err != nil {
			return fmt.Errorf("upsert unit %d: %w", u.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
