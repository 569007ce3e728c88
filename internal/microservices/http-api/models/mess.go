package models

import "time"

// PriceTier is the fixed pricing enumeration of a mess.
type PriceTier string

const (
	PriceBudget   PriceTier = "$"
	PriceStandard PriceTier = "$$"
	PricePremium  PriceTier = "$$$"
)

// Valid reports whether p is one of the known tiers (empty is allowed, it means unset).
func (p PriceTier) Valid() bool {
	switch p {
	case "", PriceBudget, PriceStandard, PricePremium:
		return true
	}
	return false
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{longitude, latitude}}
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

// DayHours is an open/close pair such as "08:00"-"22:00".
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours is the per-weekday timetable. A nil day means closed or unknown.
type OpeningHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// Offer is a special offer attached to a mess.
type Offer struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ValidUntil  time.Time `json:"validUntil"`
}

// ActiveAt reports whether the offer has not expired at now. Expiry equal to now is still active.
func (o Offer) ActiveAt(now time.Time) bool {
	return !o.ValidUntil.Before(now)
}

// Mess is a campus food-service listing.
// Rating and ReviewCount are derived from the reviews and are only written by the aggregate recompute.
type Mess struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Address            string       `json:"address"`
	Location           GeoPoint     `json:"location"`
	Campus             string       `json:"campus"`
	DistanceFromCampus float64      `json:"distanceFromCampus"` // meters
	Rating             float64      `json:"rating"`
	ReviewCount        int          `json:"reviewCount"`
	Pricing            PriceTier    `json:"pricing,omitempty"`
	Specialties        []string     `json:"specialties"`
	OpeningHours       OpeningHours `json:"openingHours"`
	ContactNumber      string       `json:"contactNumber,omitempty"`
	Photos             []string     `json:"photos"`
	SpecialOffers      []Offer      `json:"specialOffers"`
}

// ActiveOffer is one offer flattened with the mess it belongs to.
type ActiveOffer struct {
	ID          string    `json:"id"`
	MessID      string    `json:"messId"`
	MessName    string    `json:"messName"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ValidUntil  time.Time `json:"validUntil"`
}
