package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telemed-app-server/internal/middleware"
	"telemed-app-server/internal/services"
	"telemed-app-server/internal/utils"
)

// respondServiceError maps the services error taxonomy onto the HTTP envelope.
// Authorization and state failures surface verbatim; anything unrecognized is
// a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// callerIdentity pulls the authenticated (id, role) pair out of the gin
// context. A false return has already produced a 401 response.
func callerIdentity(c *gin.Context) (services.Identity, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return services.Identity{}, false
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User role not found in token")
		return services.Identity{}, false
	}
	return services.Identity{ID: userID, Role: role}, true
}
