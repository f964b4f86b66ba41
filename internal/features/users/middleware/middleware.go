package users_middleware

import (
	"net/http"
	"strings"

	users_models "inovadata/internal/features/users/models"
	users_services "inovadata/internal/features/users/services"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "session"

// AuthMiddleware resolves the session token (cookie or bearer header) to a
// user. Validation fails closed; a dead token clears the client cookie so
// browsers stop resending it.
func AuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ExtractSessionToken(ctx)
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			ctx.Abort()
			return
		}

		user, err := userService.ValidateSession(token)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate session"})
			ctx.Abort()
			return
		}

		if user == nil {
			ClearSessionCookie(ctx)
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			ctx.Abort()
			return
		}

		ctx.Set("user", user)
		ctx.Set("sessionToken", token)
		ctx.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := GetUserFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			ctx.Abort()
			return
		}

		if !user.IsAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func ExtractSessionToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return header
}

func SetSessionCookie(ctx *gin.Context, token string, maxAgeSeconds int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookieName, token, maxAgeSeconds, "/", "", false, true)
}

func ClearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// GetUserFromContext helper function to extract user from gin context
func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	userInterface, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}

	user, ok := userInterface.(*users_models.User)

	return user, ok
}
