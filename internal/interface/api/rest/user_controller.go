package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/interface/api/rest/dto/user"
	"user-account-api/internal/interface/api/rest/middleware"
	"user-account-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	authMW gin.HandlerFunc,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	admin := middleware.RequireUserManager()

	r.GET(RouteUsers, authMW, uc.GetUsersHandler)
	r.GET(RouteUsersSearch, authMW, uc.SearchUsersHandler)
	r.GET(RouteUsersStats, authMW, admin, uc.StatsHandler)
	r.GET(RouteUser, authMW, uc.GetUserHandler)
	r.PUT(RouteUser, authMW, admin, uc.UpdateUserHandler)
	r.DELETE(RouteUser, authMW, admin, uc.DeleteUserHandler)
	r.POST(RouteUserRestore, authMW, admin, uc.RestoreUserHandler)
	r.DELETE(RouteUserPurge, authMW, admin, uc.PurgeUserHandler)

	return uc
}

// canSeeDeleted reports whether the caller may look past the soft-delete filter.
func canSeeDeleted(c *gin.Context) bool {
	p, ok := middleware.PrincipalFrom(c)
	return ok && p.Role.CanManageUsers()
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	f, errs := validator.ParseListQuery(c.Request.URL.Query())
	if errs != nil {
		writeInvalid(c, errs)
		return
	}
	if f.IncludeDeleted && !canSeeDeleted(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return
	}

	page, err := uc.userService.ListUsers(c.Request.Context(), f)
	if err != nil {
		writeError(c, uc.logger, "ListUsers()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponsePage(page))
}

func (uc *UserController) SearchUsersHandler(c *gin.Context) {
	users, err := uc.userService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, uc.logger, "SearchUsers()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(users),
	})
}

func (uc *UserController) StatsHandler(c *gin.Context) {
	stats, err := uc.userService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, uc.logger, "Stats()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseStats(stats))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	includeDeleted := c.Query("include_deleted") == "true"
	if includeDeleted && !canSeeDeleted(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return
	}

	u, err := uc.userService.GetUserDetails(c.Request.Context(), id, includeDeleted)
	if err != nil {
		writeError(c, uc.logger, "GetUserDetails()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	in, errs := validator.ValidateUpdate(id, req)
	if errs != nil {
		writeInvalid(c, errs)
		return
	}

	u, err := uc.userService.UpdateUser(c.Request.Context(), in)
	if err != nil {
		writeError(c, uc.logger, "UpdateUser()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	uc.lifecycle(c, "DeleteUser()", uc.userService.DeleteUser)
}

func (uc *UserController) RestoreUserHandler(c *gin.Context) {
	uc.lifecycle(c, "RestoreUser()", uc.userService.RestoreUser)
}

func (uc *UserController) PurgeUserHandler(c *gin.Context) {
	uc.lifecycle(c, "HardDeleteUser()", uc.userService.HardDeleteUser)
}

func (uc *UserController) lifecycle(c *gin.Context, op string, apply func(ctx context.Context, id string) error) {
	id, ok := uc.userID(c)
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), id); err != nil {
		writeError(c, uc.logger, op, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) userID(c *gin.Context) (string, bool) {
	id, err := validator.ValidateUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return "", false
	}
	return id, true
}
