package pgstore

import (
	"context"
	"time"

	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates the GORM implementation of ReviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	uid, err := parseID(review.User.ID)
	if err != nil {
		return err
	}
	mid, err := parseID(review.MessID)
	if err != nil {
		return err
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	review.Photos = nonNil(review.Photos)

	row := reviewRow{
		ID:        uuid.NewString(),
		UserID:    uid,
		MessID:    mid,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Photos:    jsonFrom(review.Photos),
		CreatedAt: review.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	review.ID = row.ID
	return nil
}

func (r *reviewRepository) FindByMess(ctx context.Context, messID string, limit int, newestFirst bool) ([]models.Review, error) {
	mid, err := parseID(messID)
	if err != nil {
		return nil, err
	}
	order := "reviews.created_at, reviews.id"
	if newestFirst {
		order = "reviews.created_at DESC, reviews.id DESC"
	}

	q := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.name AS author_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.mess_id = ?", mid).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []reviewWithAuthor
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *reviewRepository) Aggregate(ctx context.Context, messID string) (float64, int, error) {
	mid, err := parseID(messID)
	if err != nil {
		return 0, 0, err
	}
	var agg struct {
		Average float64
		Count   int
	}
	err = r.db.WithContext(ctx).Model(&reviewRow{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("mess_id = ?", mid).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Average, agg.Count, nil
}
