package projects_controllers

import (
	"net/http"

	projects_dto "inovadata/internal/features/projects/dto"
	projects_services "inovadata/internal/features/projects/services"
	users_middleware "inovadata/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MembershipController struct {
	membershipService *projects_services.MembershipService
}

func (c *MembershipController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/projects/:projectId/members", c.GetMembers)
	router.POST("/projects/:projectId/members", c.AddMember)
	router.PUT("/projects/:projectId/members/:userId", c.ChangeMemberRole)
	router.DELETE("/projects/:projectId/members/:userId", c.RemoveMember)
}

// GetMembers
// @Summary List project members
// @Tags members
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} projects_dto.ListMembersResponseDTO
// @Failure 404
// @Router /projects/{projectId}/members [get]
func (c *MembershipController) GetMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	members, err := c.membershipService.GetMembers(projectID, user)
	if err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects_dto.ListMembersResponseDTO{Members: members})
}

// AddMember
// @Summary Add a member to a project
// @Description Owners and editors can grant editor or viewer access by email
// @Tags members
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param request body projects_dto.AddMemberRequestDTO true "Member data"
// @Success 201
// @Failure 404
// @Failure 409
// @Router /projects/{projectId}/members [post]
func (c *MembershipController) AddMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request projects_dto.AddMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	membership, err := c.membershipService.AddMember(projectID, user, &request)
	if err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, membership)
}

// ChangeMemberRole
// @Summary Change a member's role
// @Description Owner-only; the owner's own role is immutable
// @Tags members
// @Accept json
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param userId path string true "Member user ID"
// @Param request body projects_dto.ChangeMemberRoleRequestDTO true "New role"
// @Success 200
// @Failure 403
// @Failure 404
// @Router /projects/{projectId}/members/{userId} [put]
func (c *MembershipController) ChangeMemberRole(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	memberUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request projects_dto.ChangeMemberRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := c.membershipService.ChangeMemberRole(projectID, user, memberUserID, &request); err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

// RemoveMember
// @Summary Remove a member from a project
// @Description Owner-only; the owner membership cannot be removed
// @Tags members
// @Security SessionAuth
// @Param projectId path string true "Project ID"
// @Param userId path string true "Member user ID"
// @Success 204
// @Failure 403
// @Failure 404
// @Router /projects/{projectId}/members/{userId} [delete]
func (c *MembershipController) RemoveMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	memberUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := c.membershipService.RemoveMember(projectID, user, memberUserID); err != nil {
		respondProjectError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
