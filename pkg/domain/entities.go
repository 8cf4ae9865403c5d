// Package domain defines the catalog entities, value types, and rule
// evaluation primitives used by landingcore.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record held in the catalog.
type EntityType string

// Supported entity type identifiers used in violations, conflicts, and lookups.
const (
	// EntityArea identifies a geographic area record.
	EntityArea EntityType = "area"
	// EntityZone identifies a zone within an area.
	EntityZone EntityType = "zone"
	// EntityProject identifies a development project record.
	EntityProject EntityType = "project"
	// EntityUnit identifies a sellable unit record.
	EntityUnit EntityType = "unit"
	// EntitySelection identifies the current unit selection as a whole.
	EntitySelection EntityType = "selection"
)

// CompletionStatus describes the construction state of a project.
type CompletionStatus string

// Canonical completion states.
const (
	CompletionOffPlan           CompletionStatus = "off_plan"
	CompletionUnderConstruction CompletionStatus = "under_construction"
	CompletionReady             CompletionStatus = "ready"
)

// UnitStatus is the sales state of a unit.
type UnitStatus string

// Canonical unit sales states.
const (
	UnitAvailable UnitStatus = "available"
	UnitReserved  UnitStatus = "reserved"
	UnitSold      UnitStatus = "sold"
)

// Valid reports whether s is a recognised unit status.
func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitReserved, UnitSold:
		return true
	default:
		return false
	}
}

// DemandStatus flags units that the availability cascade promoted.
type DemandStatus string

// Canonical demand states.
const (
	DemandNormal DemandStatus = "normal"
	DemandHigh   DemandStatus = "high_demand"
)

// PropertyType distinguishes unit layouts.
type PropertyType string

// Known property types.
const (
	PropertyStudio    PropertyType = "studio"
	PropertyApartment PropertyType = "apartment"
	PropertyVilla     PropertyType = "villa"
)

// Area is a top-level geographic grouping (e.g. Dubai Marina).
type Area struct {
	ID     int    `json:"area_id" yaml:"area_id" db:"area_id"`
	NameEN string `json:"area_name_en" yaml:"area_name_en" db:"name_en"`
	NameAR string `json:"area_name_ar,omitempty" yaml:"area_name_ar,omitempty" db:"name_ar"`
}

// Zone is a sub-division of an area.
type Zone struct {
	ID     int    `json:"zone_id" yaml:"zone_id" db:"zone_id"`
	AreaID int    `json:"area_id" yaml:"area_id" db:"area_id"`
	NameEN string `json:"zone_name_en" yaml:"zone_name_en" db:"name_en"`
	NameAR string `json:"zone_name_ar,omitempty" yaml:"zone_name_ar,omitempty" db:"name_ar"`
}

// Project is a development containing many units.
type Project struct {
	ID               int              `json:"project_id" yaml:"project_id"`
	Name             string           `json:"project_name" yaml:"project_name"`
	AreaID           int              `json:"area_id" yaml:"area_id"`
	ZoneID           int              `json:"zone_id" yaml:"zone_id"`
	CompletionStatus CompletionStatus `json:"completion_status" yaml:"completion_status"`
	CompletionDate   time.Time        `json:"completion_date" yaml:"completion_date"`
	MinPrice         float64          `json:"min_price" yaml:"min_price"`
	MaxPrice         float64          `json:"max_price" yaml:"max_price"`
	TotalUnits       int              `json:"total_units" yaml:"total_units"`
	AvailableUnits   int              `json:"available_units" yaml:"available_units"`
	CommonAreaRatio  float64          `json:"common_area_ratio,omitempty" yaml:"common_area_ratio,omitempty"`
	Developer        string           `json:"developer" yaml:"developer"`
	Amenities        []string         `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	ImageURL         string           `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Unit is a sellable inventory item.
type Unit struct {
	ID           int          `json:"unit_id" yaml:"unit_id" db:"unit_id"`
	ProjectID    int          `json:"project_id" yaml:"project_id" db:"project_id"`
	Number       string       `json:"unit_number" yaml:"unit_number" db:"unit_number"`
	Price        float64      `json:"price" yaml:"price" db:"price"`
	Bedrooms     int          `json:"bedrooms" yaml:"bedrooms" db:"bedrooms"`
	PropertyType PropertyType `json:"property_type" yaml:"property_type" db:"property_type"`
	AreaSqft     float64      `json:"area_sqft" yaml:"area_sqft" db:"area_sqft"`
	FloorLevel   int          `json:"floor_level" yaml:"floor_level" db:"floor_level"`
	Status       UnitStatus   `json:"status" yaml:"status" db:"status"`
	DemandStatus DemandStatus `json:"demand_status" yaml:"demand_status" db:"demand_status"`
	HasBalcony   bool         `json:"has_balcony" yaml:"has_balcony" db:"has_balcony"`
	HasParking   bool         `json:"has_parking" yaml:"has_parking" db:"has_parking"`
	Phase        string       `json:"phase" yaml:"phase" db:"phase"`
	ImageURL     string       `json:"image_url,omitempty" yaml:"image_url,omitempty" db:"image_url"`
}

// TypeKey groups units by layout, e.g. "apartment-2".
func (u Unit) TypeKey() string {
	return fmt.Sprintf("%s-%d", u.PropertyType, u.Bedrooms)
}

// Available reports whether the unit can still be selected.
func (u Unit) Available() bool {
	return u.Status == UnitAvailable
}

// Catalog is a complete master data snapshot.
type Catalog struct {
	Areas    []Area    `json:"areas" yaml:"areas"`
	Zones    []Zone    `json:"zones" yaml:"zones"`
	Projects []Project `json:"projects" yaml:"projects"`
	Units    []Unit    `json:"units" yaml:"units"`
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Areas: append([]Area(nil), c.Areas...),
		Zones: append([]Zone(nil), c.Zones...),
		Units: append([]Unit(nil), c.Units...),
	}
	if c.Projects != nil {
		out.Projects = make([]Project, len(c.Projects))
		for i, p := range c.Projects {
			out.Projects[i] = CloneProject(p)
		}
	}
	return out
}

// CloneProject copies a project including its amenity list.
func CloneProject(p Project) Project {
	cp := p
	cp.Amenities = append([]string(nil), p.Amenities...)
	return cp
}
