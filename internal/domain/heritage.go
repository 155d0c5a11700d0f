package domain

import "slices"

// Source identifies where a heritage record originated. It drives the attribution label and
// whether the record is eligible for enrichment.
type Source string

const (
	SourceWikipedia         Source = "wikipedia"
	SourceIncredibleIndia   Source = "incredibleindia"
	SourceMinistryOfCulture Source = "ministryofculture"
	SourceLocal             Source = "local"
)

// Valid reports whether s is one of the known provenance values.
func (s Source) Valid() bool {
	switch s {
	case SourceWikipedia, SourceIncredibleIndia, SourceMinistryOfCulture, SourceLocal:
		return true
	}
	return false
}

// Label returns the attribution shown next to a record.
func (s Source) Label() string {
	switch s {
	case SourceWikipedia:
		return "Wikipedia"
	case SourceIncredibleIndia:
		return "Incredible India"
	case SourceMinistryOfCulture:
		return "Ministry of Culture"
	default:
		return "Local archive"
	}
}

// Well-known categories. Category is an open string; these are the values the seed catalog uses.
const (
	CategoryMonuments = "Monuments"
	CategoryHistory   = "History"
	CategoryArtCraft  = "Art & Craft"
	CategoryMusic     = "Music"
	CategoryDance     = "Dance"
	CategoryFestivals = "Festivals"
)

// HeritageItem describes one cultural entity: a monument, festival, art form and so on.
// Empty strings and nil slices mean the field is absent.
type HeritageItem struct {
	ID              string        `json:"id" yaml:"id"`
	Title           string        `json:"title" yaml:"title"`
	Description     string        `json:"description" yaml:"description"`
	LongDescription string        `json:"longDescription,omitempty" yaml:"longDescription"`
	Image           string        `json:"image" yaml:"image"`
	Gallery         []string      `json:"gallery,omitempty" yaml:"gallery"`
	Category        string        `json:"category" yaml:"category"`
	State           string        `json:"state" yaml:"state"`
	Region          string        `json:"region" yaml:"region"`
	Location        string        `json:"location" yaml:"location"`
	Period          string        `json:"period,omitempty" yaml:"period"`
	Significance    string        `json:"significance,omitempty" yaml:"significance"`
	Source          Source        `json:"source" yaml:"source"`
	SourceURL       string        `json:"sourceUrl,omitempty" yaml:"sourceUrl"`
	Rating          float64       `json:"rating,omitempty" yaml:"rating"`
	VisitCount      int64         `json:"visitCount,omitempty" yaml:"visitCount"`
	IsFeatured      bool          `json:"isFeatured,omitempty" yaml:"isFeatured"`
	Tags            []string      `json:"tags,omitempty" yaml:"tags"`
	Latitude        float64       `json:"latitude,omitempty" yaml:"latitude"`
	Longitude       float64       `json:"longitude,omitempty" yaml:"longitude"`
	RelatedItems    []RelatedItem `json:"relatedItems,omitempty" yaml:"relatedItems"`
}

// RelatedItem is a lightweight reference to another record.
type RelatedItem struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Image    string `json:"image" yaml:"image"`
	Category string `json:"category" yaml:"category"`
}

// HasCoordinates reports whether the record carries a map position.
func (h HeritageItem) HasCoordinates() bool {
	return h.Latitude != 0 || h.Longitude != 0
}

// Clone returns a deep copy so callers can never alias slices held by the catalog.
func (h HeritageItem) Clone() HeritageItem {
	h.Gallery = slices.Clone(h.Gallery)
	h.Tags = slices.Clone(h.Tags)
	h.RelatedItems = slices.Clone(h.RelatedItems)
	return h
}

// Region groups a disjoint set of states.
type Region struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	States      []string `json:"states" yaml:"states"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image" yaml:"image"`
}

// Clone returns a deep copy of the region.
func (r Region) Clone() Region {
	r.States = slices.Clone(r.States)
	return r
}

// StateCount summarises how many records a state holds, with the first image seen for it.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
	Image string `json:"image"`
}
