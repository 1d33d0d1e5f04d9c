package types

// PartStatus indicates whether a part is orderable
type PartStatus string

const (
	PartStatusActive   PartStatus = "active"
	PartStatusInactive PartStatus = "inactive"
)

// Part represents a catalog entity. Parts are immutable during a search
// operation; catalog management owns the write path.
type Part struct {
	ID           int64
	Name         string
	OEMCode      string
	Brand        string
	VehicleMake  string
	VehicleModel string
	Trim         string
	Category     string
	Subcategory  string
	Position     string // e.g. front/rear
	Unit         string
	Status       PartStatus
	Description  string
}

// Active reports whether the part can appear in search results
func (p *Part) Active() bool {
	return p.Status == PartStatusActive
}

// SearchText returns the text used for semantic similarity against queries
func (p *Part) SearchText() string {
	text := p.Name
	if p.VehicleMake != "" {
		text += " " + p.VehicleMake
	}
	if p.VehicleModel != "" {
		text += " " + p.VehicleModel
	}
	if p.Category != "" {
		text += " " + p.Category
	}
	if p.Description != "" {
		text += " " + p.Description
	}
	return text
}

// Synonym maps an alias phrase (any script) to a part. Maintained by admin
// tooling; read-only to the search core.
type Synonym struct {
	ID     int64
	PartID int64
	Alias  string
	Weight float64 // per-entry confidence, defaults to 1.0
}
