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

const appendFavoriteSQL = `INSERT INTO user_favorites (user_id, mess_id, position)
	SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM user_favorites WHERE user_id = ?`

const appendReviewSQL = `INSERT INTO user_reviews (user_id, review_id, position)
	SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM user_reviews WHERE user_id = ?`

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the GORM implementation of UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	row := userRow{
		ID:        uuid.NewString(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		College:   user.College,
		CreatedAt: user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	user.ID = row.ID
	user.Favorites = []string{}
	user.Reviews = []string{}
	return nil
}

// hydrate loads the ordered favorite and review id lists of row.
func (r *userRepository) hydrate(ctx context.Context, row *userRow) (*models.User, error) {
	db := r.db.WithContext(ctx)
	var favorites, reviews []string
	if err := db.Model(&favoriteRow{}).Where("user_id = ?", row.ID).Order("position").Pluck("mess_id", &favorites).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&userReviewRow{}).Where("user_id = ?", row.ID).Order("position").Pluck("review_id", &reviews).Error; err != nil {
		return nil, err
	}
	return row.toModel(favorites, reviews), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, mapError(err)
	}
	return r.hydrate(ctx, &row)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := r.db.WithContext(ctx).Omit("password").First(&row, "id = ?", uid).Error; err != nil {
		return nil, mapError(err)
	}
	row.Password = ""
	return r.hydrate(ctx, &row)
}

func (r *userRepository) AppendReview(ctx context.Context, userID, reviewID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	rid, err := parseID(reviewID)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(appendReviewSQL, uid, rid, uid)
	return mapError(res.Error)
}

// ToggleFavorite locks the user row so concurrent toggles for one user run one at a time.
func (r *userRepository) ToggleFavorite(ctx context.Context, userID, messID string) (bool, error) {
	uid, err := parseID(userID)
	if err != nil {
		return false, err
	}
	mid, err := parseID(messID)
	if err != nil {
		return false, err
	}

	var added bool
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner userRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&owner, "id = ?", uid).Error; err != nil {
			return mapError(err)
		}
		res := tx.Where("user_id = ? AND mess_id = ?", uid, mid).Delete(&favoriteRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false
			return nil
		}
		added = true
		return tx.Exec(appendFavoriteSQL, uid, mid, uid).Error
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *userRepository) ListFavorites(ctx context.Context, userID string) ([]models.Mess, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	var owner userRow
	if err := db.Select("id").First(&owner, "id = ?", uid).Error; err != nil {
		return nil, mapError(err)
	}

	var rows []messRow
	err = db.Model(&messRow{}).
		Select("messes.*").
		Joins("JOIN user_favorites ON user_favorites.mess_id = messes.id").
		Where("user_favorites.user_id = ?", uid).
		Order("user_favorites.position").
		Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("valid_until") }).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Mess, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}
