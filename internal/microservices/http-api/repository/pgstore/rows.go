package pgstore

import (
	"encoding/json"
	"time"

	"campusmess/internal/microservices/http-api/models"

	"gorm.io/datatypes"
)

type userRow struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Password  string    `gorm:"not null"`
	College   string    `gorm:"size:100"`
	CreatedAt time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type messRow struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	Name               string         `gorm:"not null"`
	Address            string
	Longitude          float64        `gorm:"not null"`
	Latitude           float64        `gorm:"not null"`
	Campus             string         `gorm:"index"`
	DistanceFromCampus float64        `gorm:"not null;default:0"`
	Rating             float64        `gorm:"not null;default:0"`
	ReviewCount        int            `gorm:"not null;default:0"`
	Pricing            string         `gorm:"size:3"`
	Specialties        datatypes.JSON `gorm:"type:jsonb"`
	OpeningHours       datatypes.JSON `gorm:"type:jsonb"`
	ContactNumber      string
	Photos             datatypes.JSON `gorm:"type:jsonb"`
	Offers             []offerRow     `gorm:"foreignKey:MessID;constraint:OnDelete:CASCADE"`
}

func (messRow) TableName() string { return "messes" }

type offerRow struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	MessID      string    `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	ValidUntil  time.Time `gorm:"not null;index"`
}

func (offerRow) TableName() string { return "mess_offers" }

type reviewRow struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:uuid;not null;index"`
	MessID    string         `gorm:"type:uuid;not null;index:idx_reviews_mess_created,priority:1"`
	Rating    int            `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string
	Photos    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;index:idx_reviews_mess_created,priority:2,sort:desc"`
}

func (reviewRow) TableName() string { return "reviews" }

// reviewWithAuthor is the scan target of the reviews/users join.
// Columns are listed flat so Scan maps each one by name.
type reviewWithAuthor struct {
	ID         string
	UserID     string
	MessID     string
	Rating     int
	Comment    string
	Photos     datatypes.JSON
	CreatedAt  time.Time
	AuthorName string
}

type favoriteRow struct {
	UserID   string `gorm:"type:uuid;primaryKey"`
	MessID   string `gorm:"type:uuid;primaryKey"`
	Position int64  `gorm:"not null"`
}

func (favoriteRow) TableName() string { return "user_favorites" }

type userReviewRow struct {
	UserID   string `gorm:"type:uuid;primaryKey"`
	ReviewID string `gorm:"type:uuid;primaryKey"`
	Position int64  `gorm:"not null"`
}

func (userReviewRow) TableName() string { return "user_reviews" }

type activeOfferRow struct {
	ID          string
	MessID      string
	MessName    string
	Title       string
	Description string
	ValidUntil  time.Time
}

func jsonFrom(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func parseStrings(j datatypes.JSON) []string {
	out := []string{}
	if len(j) == 0 {
		return out
	}
	_ = json.Unmarshal(j, &out)
	if out == nil {
		out = []string{}
	}
	return out
}

func (r *userRow) toModel(favorites, reviews []string) *models.User {
	if favorites == nil {
		favorites = []string{}
	}
	if reviews == nil {
		reviews = []string{}
	}
	return &models.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		College:   r.College,
		Favorites: favorites,
		Reviews:   reviews,
		CreatedAt: r.CreatedAt,
	}
}

func newMessRow(m *models.Mess) *messRow {
	row := &messRow{
		ID:                 m.ID,
		Name:               m.Name,
		Address:            m.Address,
		Longitude:          m.Location.Longitude(),
		Latitude:           m.Location.Latitude(),
		Campus:             m.Campus,
		DistanceFromCampus: m.DistanceFromCampus,
		Rating:             m.Rating,
		ReviewCount:        m.ReviewCount,
		Pricing:            string(m.Pricing),
		Specialties:        jsonFrom(nonNil(m.Specialties)),
		OpeningHours:       jsonFrom(m.OpeningHours),
		ContactNumber:      m.ContactNumber,
		Photos:             jsonFrom(nonNil(m.Photos)),
	}
	for _, o := range m.SpecialOffers {
		row.Offers = append(row.Offers, offerRow{
			ID:          o.ID,
			MessID:      m.ID,
			Title:       o.Title,
			Description: o.Description,
			ValidUntil:  o.ValidUntil,
		})
	}
	return row
}

func (r *messRow) toModel() models.Mess {
	m := models.Mess{
		ID:                 r.ID,
		Name:               r.Name,
		Address:            r.Address,
		Location:           models.NewPoint(r.Longitude, r.Latitude),
		Campus:             r.Campus,
		DistanceFromCampus: r.DistanceFromCampus,
		Rating:             r.Rating,
		ReviewCount:        r.ReviewCount,
		Pricing:            models.PriceTier(r.Pricing),
		Specialties:        parseStrings(r.Specialties),
		ContactNumber:      r.ContactNumber,
		Photos:             parseStrings(r.Photos),
		SpecialOffers:      make([]models.Offer, 0, len(r.Offers)),
	}
	if len(r.OpeningHours) > 0 {
		_ = json.Unmarshal(r.OpeningHours, &m.OpeningHours)
	}
	for _, o := range r.Offers {
		m.SpecialOffers = append(m.SpecialOffers, models.Offer{
			ID:          o.ID,
			Title:       o.Title,
			Description: o.Description,
			ValidUntil:  o.ValidUntil,
		})
	}
	return m
}

func (r *reviewWithAuthor) toModel() models.Review {
	return models.Review{
		ID:        r.ID,
		User:      models.ReviewAuthor{ID: r.UserID, Name: r.AuthorName},
		MessID:    r.MessID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Photos:    parseStrings(r.Photos),
		CreatedAt: r.CreatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
