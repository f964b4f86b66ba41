package users_controllers

import (
	"errors"
	"net/http"
	"time"

	users_dto "inovadata/internal/features/users/dto"
	users_middleware "inovadata/internal/features/users/middleware"
	users_services "inovadata/internal/features/users/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type UserController struct {
	userService   *users_services.UserService
	signinLimiter *rate.Limiter
}

func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users/signup", c.SignUp)
	router.POST("/users/signin", c.SignIn)
}

func (c *UserController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/users/me", c.GetCurrentUser)
	router.POST("/users/signout", c.SignOut)
	router.POST("/users/change-password", c.ChangePassword)
}

func (c *UserController) SetSignInLimiter(limiter *rate.Limiter) {
	c.signinLimiter = limiter
}

// SignUp
// @Summary Register a new user
// @Description Register a new user with username, email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body users_dto.SignUpRequestDTO true "User signup data"
// @Success 200
// @Failure 400
// @Failure 409
// @Router /users/signup [post]
func (c *UserController) SignUp(ctx *gin.Context) {
	var request users_dto.SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	_, err := c.userService.SignUp(&request)
	if err != nil {
		if errors.Is(err, users_services.ErrUserAlreadyExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

// SignIn
// @Summary Authenticate a user
// @Description Authenticate with username or email, returns a session token
// @Tags users
// @Accept json
// @Produce json
// @Param request body users_dto.SignInRequestDTO true "User signin data"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 400
// @Failure 401
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /users/signin [post]
func (c *UserController) SignIn(ctx *gin.Context) {
	// We use rate limiter to prevent brute force attacks
	if !c.signinLimiter.Allow() {
		ctx.JSON(
			http.StatusTooManyRequests,
			gin.H{"error": "Rate limit exceeded. Please try again later."},
		)
		return
	}

	var request users_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.userService.SignIn(&request)
	if err != nil {
		if errors.Is(err, users_services.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	maxAge := int(time.Until(response.ExpiresAt).Seconds())
	users_middleware.SetSessionCookie(ctx, response.Token, maxAge)

	ctx.JSON(http.StatusOK, response)
}

// SignOut
// @Summary Terminate the current session
// @Tags users
// @Produce json
// @Security SessionAuth
// @Success 200
// @Failure 401
// @Router /users/signout [post]
func (c *UserController) SignOut(ctx *gin.Context) {
	token := ctx.GetString("sessionToken")
	if token != "" {
		if err := c.userService.SignOut(token); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
			return
		}
	}

	users_middleware.ClearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// ChangePassword
// @Summary Change the current user's password
// @Description Requires the current password; all other sessions are terminated
// @Tags users
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body users_dto.ChangePasswordRequestDTO true "Password change data"
// @Success 200
// @Failure 400
// @Failure 401
// @Router /users/change-password [post]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.ChangePasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := c.userService.ChangePassword(user, ctx.GetString("sessionToken"), &request)
	if err != nil {
		if errors.Is(err, users_services.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// GetCurrentUser
// @Summary Get current user profile
// @Tags users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 401
// @Router /users/me [get]
func (c *UserController) GetCurrentUser(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, c.userService.GetCurrentUserProfile(user))
}
