package model

// Reference data. Seeded externally, read-only from this service's
// perspective.

// Area is a geographic subdivision of a municipality, used for complaint
// routing and supervisor visibility. Boundary is a closed polygon of
// (lng, lat) pairs.
type Area struct {
	ID             string       `json:"id"`
	NameAr         string       `json:"name_ar"`
	MunicipalityID string       `json:"municipality_id"`
	Boundary       [][2]float64 `json:"boundary,omitempty"`
}

type Municipality struct {
	ID     string `json:"id"`
	NameAr string `json:"name_ar"`
}

// Indicator is a category tag for a complaint (waste, infrastructure, ...).
type Indicator struct {
	ID            string `json:"id"`
	NameAr        string `json:"name_ar"`
	DescriptionAr string `json:"description_ar,omitempty"`
}

type WasteItem struct {
	ID     string `json:"id"`
	NameAr string `json:"name_ar"`
}
