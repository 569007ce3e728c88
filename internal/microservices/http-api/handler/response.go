package handler

import (
	"campusmess/internal/apperrors"
	"campusmess/internal/logger"
	"campusmess/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// respondError writes the {success:false, message} envelope for err.
// Internal failures are logged with their cause, the client only sees the generic message.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Type == apperrors.ErrorTypeInternal {
		logger.FromContext(c.Request.Context()).Error().
			Err(appErr.Err).
			Str("op", appErr.Message).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), dto.Fail(appErr.PublicMessage()))
}

// bindError reports a binding failure as a 400 with a field level message.
func bindError(c *gin.Context, err error) {
	respondError(c, apperrors.NewValidationError(dto.ValidationMessage(err)))
}
