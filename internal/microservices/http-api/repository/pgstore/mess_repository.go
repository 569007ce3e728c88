package pgstore

import (
	"context"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pointGeography = "ST_MakePoint(longitude, latitude)::geography"

type messRepository struct {
	db *gorm.DB
}

// NewMessRepository creates the GORM implementation of MessRepository.
func NewMessRepository(db *gorm.DB) repository.MessRepository {
	return &messRepository{db: db}
}

func withOffers(db *gorm.DB) *gorm.DB {
	return db.Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("valid_until") })
}

func (r *messRepository) Create(ctx context.Context, mess *models.Mess) error {
	if mess.ID == "" {
		mess.ID = uuid.NewString()
	}
	for i := range mess.SpecialOffers {
		if mess.SpecialOffers[i].ID == "" {
			mess.SpecialOffers[i].ID = uuid.NewString()
		}
	}
	return mapError(r.db.WithContext(ctx).Create(newMessRow(mess)).Error)
}

func (r *messRepository) FindByID(ctx context.Context, id string) (*models.Mess, error) {
	mid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row messRow
	if err := withOffers(r.db.WithContext(ctx)).First(&row, "id = ?", mid).Error; err != nil {
		return nil, mapError(err)
	}
	mess := row.toModel()
	return &mess, nil
}

// FindNearby filters with ST_DWithin and orders by ST_Distance over geography,
// so both are in meters.
func (r *messRepository) FindNearby(ctx context.Context, filter repository.NearbyFilter) ([]models.Mess, error) {
	q := withOffers(r.db.WithContext(ctx)).Model(&messRow{})
	if filter.Campus != "" {
		q = q.Where("campus = ?", filter.Campus)
	}
	if p := filter.Point; p != nil {
		q = q.Where("ST_DWithin("+pointGeography+", ST_MakePoint(?, ?)::geography, ?)",
			p.Longitude(), p.Latitude(), filter.MaxDistanceMeters).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ST_Distance(" + pointGeography + ", ST_MakePoint(?, ?)::geography), id",
				Vars:               []interface{}{p.Longitude(), p.Latitude()},
				WithoutParentheses: true,
			}})
	} else {
		q = q.Order("distance_from_campus, id")
	}

	var rows []messRow
	if err := q.Limit(filter.EffectiveLimit()).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Mess, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *messRepository) UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error {
	mid, err := parseID(id)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&messRow{}).Where("id = ?", mid).Updates(map[string]interface{}{
		"rating":       rating,
		"review_count": reviewCount,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *messRepository) ListActiveOffers(ctx context.Context, now time.Time) ([]models.ActiveOffer, error) {
	var rows []activeOfferRow
	err := r.db.WithContext(ctx).
		Table("mess_offers").
		Select("mess_offers.id, mess_offers.mess_id, messes.name AS mess_name, mess_offers.title, mess_offers.description, mess_offers.valid_until").
		Joins("JOIN messes ON messes.id = mess_offers.mess_id").
		Where("mess_offers.valid_until >= ?", now).
		Order("mess_offers.valid_until, mess_offers.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.ActiveOffer, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ActiveOffer(row))
	}
	return out, nil
}
