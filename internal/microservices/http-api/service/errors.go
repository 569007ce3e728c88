package service

import (
	"errors"

	"campusmess/internal/apperrors"
	"campusmess/internal/microservices/http-api/repository"
)

const (
	MsgEmailRegistered    = "This email is already registered"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
	MsgMessNotFound       = "Mess not found"
	MsgAddedFavorite      = "Added to favorites"
	MsgRemovedFavorite    = "Removed from favorites"
	MsgOfferClaimed       = "Offer claimed successfully"
)

// storeError maps repository sentinels onto the error taxonomy.
// ErrNotFound becomes a NotFound with notFoundMsg, anything unknown is internal.
func storeError(op string, err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFoundError(notFoundMsg)
	default:
		return apperrors.NewInternalError(op, err)
	}
}
