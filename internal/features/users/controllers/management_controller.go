package users_controllers

import (
	"errors"
	"net/http"

	users_dto "inovadata/internal/features/users/dto"
	users_middleware "inovadata/internal/features/users/middleware"
	users_services "inovadata/internal/features/users/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementController struct {
	managementService *users_services.ManagementService
}

func (c *ManagementController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", c.ListUsers)
	router.POST("/users/:id/deactivate", c.DeactivateUser)
	router.POST("/users/:id/activate", c.ActivateUser)
}

// ListUsers
// @Summary List users
// @Description Admin-only listing of all user accounts
// @Tags users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} users_dto.ListUsersResponseDTO
// @Failure 403
// @Router /users [get]
func (c *ManagementController) ListUsers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.ListUsersRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.managementService.ListUsers(user, &request)
	if err != nil {
		if errors.Is(err, users_services.ErrNotAdmin) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeactivateUser
// @Summary Deactivate a user account
// @Tags users
// @Produce json
// @Security SessionAuth
// @Param id path string true "User ID"
// @Success 200
// @Failure 403
// @Router /users/{id}/deactivate [post]
func (c *ManagementController) DeactivateUser(ctx *gin.Context) {
	c.setUserActive(ctx, false)
}

// ActivateUser
// @Summary Reactivate a user account
// @Tags users
// @Produce json
// @Security SessionAuth
// @Param id path string true "User ID"
// @Success 200
// @Failure 403
// @Router /users/{id}/activate [post]
func (c *ManagementController) ActivateUser(ctx *gin.Context) {
	c.setUserActive(ctx, true)
}

func (c *ManagementController) setUserActive(ctx *gin.Context, active bool) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if active {
		err = c.managementService.ActivateUser(user, userID)
	} else {
		err = c.managementService.DeactivateUser(user, userID)
	}

	if err != nil {
		if errors.Is(err, users_services.ErrNotAdmin) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User updated"})
}
