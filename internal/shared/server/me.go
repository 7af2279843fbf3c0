package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"toolfinder-backend/internal/shared/server/middleware"
	"toolfinder-backend/internal/shared/server/respond"
)

const guestPrefix = "guest:"

type meResponse struct {
	UserID  string `json:"userId"`
	IsGuest bool   `json:"isGuest"`
	GuestID string `json:"guestId,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler describes the caller. Guests carry only their id; signed-in users
// also get the profile fields from their token.
func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	out := meResponse{UserID: userID}
	if guestID, ok := strings.CutPrefix(userID, guestPrefix); ok {
		out.IsGuest = true
		out.GuestID = guestID
	} else {
		out.Email = middleware.UserEmailFromContext(c)
		out.Name = middleware.UserNameFromContext(c)
		out.Picture = middleware.UserPictureFromContext(c)
	}
	respond.JSON(c, http.StatusOK, out)
}
