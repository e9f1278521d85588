package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/services"
	"github.com/practicehub/catalog-api/internal/validation"
)

// respondServiceError maps service-layer errors onto the API error envelope.
// Anything unrecognized is logged with the request path and answered with a
// generic 500 so internals never leak to the caller.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		apierrors.ValidationFailed(c, fieldErrs)
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSolutionNotFound),
		errors.Is(err, services.ErrReferenceNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrSolutionPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSelfReviewForbidden),
		errors.Is(err, services.ErrInvalidReference):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrReferenceNameTaken),
		errors.Is(err, services.ErrReferenceInUse):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	default:
		logger.Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		apierrors.InternalError(c)
	}
}
