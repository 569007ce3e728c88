package service

import (
	"context"

	"campusmess/internal/logger"
	"campusmess/internal/metrics"
	"campusmess/internal/microservices/http-api/models"
	"campusmess/internal/microservices/http-api/repository"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	ToggleFavorite(ctx context.Context, userID, messID string) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]models.Mess, error)
}

type userService struct {
	userRepo repository.UserRepository
	messRepo repository.MessRepository
}

func NewUserService(userRepo repository.UserRepository, messRepo repository.MessRepository) UserService {
	return &userService{userRepo: userRepo, messRepo: messRepo}
}

// GetProfile returns the user minus the hash, NotFound if deleted mid-session.
func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError("find user", err, MsgUserNotFound)
	}
	return user.WithoutPassword(), nil
}

// ToggleFavorite flips membership of messID. The mess must exist.
func (s *userService) ToggleFavorite(ctx context.Context, userID, messID string) (bool, error) {
	if _, err := s.messRepo.FindByID(ctx, messID); err != nil {
		return false, storeError("find mess", err, MsgMessNotFound)
	}

	isFavorite, err := s.userRepo.ToggleFavorite(ctx, userID, messID)
	if err != nil {
		return false, storeError("toggle favorite", err, MsgUserNotFound)
	}

	metrics.RecordFavoriteToggle(isFavorite)
	logger.FromContext(ctx).Debug().
		Str("user_id", userID).
		Str("mess_id", messID).
		Bool("is_favorite", isFavorite).
		Msg("favorite toggled")
	return isFavorite, nil
}

func (s *userService) ListFavorites(ctx context.Context, userID string) ([]models.Mess, error) {
	favorites, err := s.userRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, storeError("list favorites", err, MsgUserNotFound)
	}
	if favorites == nil {
		favorites = []models.Mess{}
	}
	return favorites, nil
}
