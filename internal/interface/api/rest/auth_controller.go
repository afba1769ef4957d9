package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/interface/api/rest/dto/auth"
	"user-account-api/internal/interface/api/rest/dto/user"
	"user-account-api/internal/interface/api/rest/middleware"
	"user-account-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	authService ports.AuthService
	seeder      ports.AdminSeeder
	tokens      ports.TokenIssuer
	sessionTTL  time.Duration
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.AuthService,
	seeder ports.AdminSeeder,
	tokens ports.TokenIssuer,
	sessionTTL time.Duration,
	authMW gin.HandlerFunc,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
		seeder:      seeder,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
	}

	r.GET(RouteLogin, ac.LoginPageHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteRegister, ac.RegisterHandler)
	r.POST(RouteLogout, authMW, ac.LogoutHandler)
	r.GET(RouteMe, authMW, ac.MeHandler)

	return ac
}

// LoginPageHandler runs the admin bootstrap that precedes every login flow.
func (ac *AuthController) LoginPageHandler(c *gin.Context) {
	if err := ac.seeder.EnsureAdminExists(c.Request.Context()); err != nil {
		writeError(c, ac.logger, "EnsureAdminExists()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	in, errs := validator.ValidateRegister(req)
	if errs != nil {
		writeInvalid(c, errs)
		return
	}

	u, err := ac.authService.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, ac.logger, "Register()", err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	userID, errs := validator.ValidateLogin(req)
	if errs != nil {
		writeInvalid(c, errs)
		return
	}

	ctx := c.Request.Context()
	if err := ac.seeder.EnsureAdminExists(ctx); err != nil {
		writeError(c, ac.logger, "EnsureAdminExists()", err)
		return
	}

	p, err := ac.authService.Login(ctx, userID, req.Password)
	if err != nil {
		writeError(c, ac.logger, "Login()", err)
		return
	}

	token, err := ac.tokens.GenerateJWT(p, ac.sessionTTL)
	if err != nil {
		ac.logger.Error("GenerateJWT() error", zap.Error(err), zap.String("user_id", p.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ac.sessionTTL.Seconds()),
		Principal:   auth.ToResponsePrincipal(p),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := ac.authService.Logout(c.Request.Context(), claims.ID, claims.TTL(time.Now())); err != nil {
		ac.logger.Error("Logout() error", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (ac *AuthController) MeHandler(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, auth.ToResponsePrincipal(p))
}
