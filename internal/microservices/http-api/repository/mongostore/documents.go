package mongostore

import (
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection   = "users"
	messesCollection  = "messes"
	reviewsCollection = "reviews"
)

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password,omitempty"`
	College   string               `bson:"college"`
	Favorites []primitive.ObjectID `bson:"favorites"`
	Reviews   []primitive.ObjectID `bson:"reviews"`
	CreatedAt time.Time            `bson:"createdAt"`
}

type geoDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type offerDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	ValidUntil  time.Time          `bson:"validUntil"`
}

type messDocument struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty"`
	Name               string              `bson:"name"`
	Address            string              `bson:"address"`
	Location           geoDocument         `bson:"location"`
	Campus             string              `bson:"campus"`
	DistanceFromCampus float64             `bson:"distanceFromCampus"`
	Rating             float64             `bson:"rating"`
	ReviewCount        int                 `bson:"reviewCount"`
	Pricing            string              `bson:"pricing,omitempty"`
	Specialties        []string            `bson:"specialties"`
	OpeningHours       models.OpeningHours `bson:"openingHours"`
	ContactNumber      string              `bson:"contactNumber,omitempty"`
	Photos             []string            `bson:"photos"`
	SpecialOffers      []offerDocument     `bson:"specialOffers"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Mess      primitive.ObjectID `bson:"mess"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment,omitempty"`
	Photos    []string           `bson:"photos"`
	CreatedAt time.Time          `bson:"createdAt"`

	// filled by the $lookup stage
	Author []struct {
		Name string `bson:"name"`
	} `bson:"author,omitempty"`
}

type activeOfferDocument struct {
	ID          primitive.ObjectID `bson:"id"`
	MessID      primitive.ObjectID `bson:"messId"`
	MessName    string             `bson:"messName"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	ValidUntil  time.Time          `bson:"validUntil"`
}

// parseID maps an unparsable hex id to ErrNotFound.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		College:   d.College,
		Favorites: hexIDs(d.Favorites),
		Reviews:   hexIDs(d.Reviews),
		CreatedAt: d.CreatedAt,
	}
}

func newMessDocument(m *models.Mess) (*messDocument, error) {
	doc := &messDocument{
		Name:               m.Name,
		Address:            m.Address,
		Location:           geoDocument{Type: "Point", Coordinates: []float64{m.Location.Longitude(), m.Location.Latitude()}},
		Campus:             m.Campus,
		DistanceFromCampus: m.DistanceFromCampus,
		Rating:             m.Rating,
		ReviewCount:        m.ReviewCount,
		Pricing:            string(m.Pricing),
		Specialties:        emptyIfNil(m.Specialties),
		OpeningHours:       m.OpeningHours,
		ContactNumber:      m.ContactNumber,
		Photos:             emptyIfNil(m.Photos),
		SpecialOffers:      make([]offerDocument, 0, len(m.SpecialOffers)),
	}
	if m.ID != "" {
		oid, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	}
	for _, o := range m.SpecialOffers {
		od := offerDocument{ID: primitive.NewObjectID(), Title: o.Title, Description: o.Description, ValidUntil: o.ValidUntil.UTC()}
		if o.ID != "" {
			if oid, err := primitive.ObjectIDFromHex(o.ID); err == nil {
				od.ID = oid
			}
		}
		doc.SpecialOffers = append(doc.SpecialOffers, od)
	}
	return doc, nil
}

func (d *messDocument) toModel() models.Mess {
	m := models.Mess{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Address:            d.Address,
		Campus:             d.Campus,
		DistanceFromCampus: d.DistanceFromCampus,
		Rating:             d.Rating,
		ReviewCount:        d.ReviewCount,
		Pricing:            models.PriceTier(d.Pricing),
		Specialties:        emptyIfNil(d.Specialties),
		OpeningHours:       d.OpeningHours,
		ContactNumber:      d.ContactNumber,
		Photos:             emptyIfNil(d.Photos),
		SpecialOffers:      make([]models.Offer, 0, len(d.SpecialOffers)),
	}
	if len(d.Location.Coordinates) == 2 {
		m.Location = models.NewPoint(d.Location.Coordinates[0], d.Location.Coordinates[1])
	}
	for _, o := range d.SpecialOffers {
		m.SpecialOffers = append(m.SpecialOffers, models.Offer{
			ID:          o.ID.Hex(),
			Title:       o.Title,
			Description: o.Description,
			ValidUntil:  o.ValidUntil,
		})
	}
	return m
}

func (d *reviewDocument) toModel() models.Review {
	r := models.Review{
		ID:        d.ID.Hex(),
		User:      models.ReviewAuthor{ID: d.User.Hex()},
		MessID:    d.Mess.Hex(),
		Rating:    d.Rating,
		Comment:   d.Comment,
		Photos:    emptyIfNil(d.Photos),
		CreatedAt: d.CreatedAt,
	}
	if len(d.Author) > 0 {
		r.User.Name = d.Author[0].Name
	}
	return r
}
