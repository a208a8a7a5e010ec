package rest

import (
	"net/http"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"
	"kneexEngine/pkg/utils"

	"github.com/labstack/echo/v4"
)

type (
	IdentityHandler struct {
		auth AuthState
	}

	AuthState interface {
		Set(identity *domain.Identity)
		Current() *domain.Identity
	}

	IdentityChangedInput struct {
		// AccessToken is the auth provider's token; null or empty means
		// the visitor signed out.
		AccessToken *string `json:"access_token"`
	}
)

func NewIdentityHandler(auth AuthState) *IdentityHandler {
	return &IdentityHandler{
		auth: auth,
	}
}

// IdentityChanged is how the rendering layer forwards the auth provider's
// state changes into the engine.
func (h *IdentityHandler) IdentityChanged(c echo.Context) error {
	var request IdentityChangedInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if request.AccessToken == nil || *request.AccessToken == "" {
		h.auth.Set(nil)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "signed out",
		})
	}

	claims, err := utils.ParseIdentityToken(*request.AccessToken)
	if err != nil {
		logger.Error("Failed to parse access token", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.auth.Set(&domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "identity updated",
	})
}
