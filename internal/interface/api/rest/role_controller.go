package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	domainRole "user-account-api/internal/domain/role"
	domain "user-account-api/internal/domain/user"
	"user-account-api/internal/interface/api/rest/dto/role"
	"user-account-api/internal/interface/api/rest/middleware"
)

type RoleController struct {
	roleService ports.RoleService
	logger      *zap.Logger
}

func NewRoleController(
	r *gin.Engine,
	roleService ports.RoleService,
	logger *zap.Logger,
	authMW gin.HandlerFunc,
) *RoleController {
	rc := &RoleController{
		roleService: roleService,
		logger:      logger,
	}

	r.GET(RouteRoles, authMW, rc.GetRolesHandler)
	r.DELETE(RouteRole, authMW, middleware.RequireUserManager(), rc.DeleteRoleHandler)

	return rc
}

func (rc *RoleController) GetRolesHandler(c *gin.Context) {
	rs, err := rc.roleService.ListRoles(c.Request.Context())
	if err != nil {
		writeError(c, rc.logger, "ListRoles()", err)
		return
	}

	c.JSON(http.StatusOK, role.ToResponseRoles(rs))
}

func (rc *RoleController) DeleteRoleHandler(c *gin.Context) {
	// only the closed role set can exist in the store
	name, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		writeError(c, rc.logger, "DeleteRole()", domainRole.ErrNotFound)
		return
	}

	if err = rc.roleService.DeleteRole(c.Request.Context(), name); err != nil {
		writeError(c, rc.logger, "DeleteRole()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
