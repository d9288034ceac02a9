package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"resto-tracker/internal/middleware"
	"resto-tracker/internal/models"
)

// kindStatus maps every domain failure kind to an HTTP status. Unclassified
// errors fall through to 500; engines are expected to classify everything
// they can.
var kindStatus = map[models.Kind]int{
	models.KindConflict:           http.StatusConflict,
	models.KindReferentialBlock:   http.StatusConflict,
	models.KindNotFound:           http.StatusNotFound,
	models.KindInvalidTransition:  http.StatusUnprocessableEntity,
	models.KindPermissionDenied:   http.StatusForbidden,
	models.KindPreconditionFailed: http.StatusUnprocessableEntity,
	models.KindValidationFailed:   http.StatusBadRequest,
}

// respondError translates a service failure into the standardized API error
// body. Domain errors keep their kind as the stable code; anything else is
// reported as an internal error without leaking details.
func respondError(ctx *gin.Context, err error) {
	var de *models.DomainError
	if errors.As(err, &de) {
		status, ok := kindStatus[de.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, models.NewAPIError(string(de.Kind), de.Message))
		return
	}

	log.WithError(err).Error("Unclassified error reached the HTTP boundary")
	ctx.JSON(http.StatusInternalServerError, models.NewAPIError("INTERNAL_SERVER_ERROR", "Something went wrong"))
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, models.NewAPIError("BAD_REQUEST", message))
}

// requesterID returns the acting account id set by the JWT middleware, or 0
// when the request carries no session.
func requesterID(ctx *gin.Context) uint {
	value, exists := ctx.Get(middleware.ContextAccountID)
	if !exists {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}

// requesterRole returns the acting account role, or "" without a session.
func requesterRole(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextRole)
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
