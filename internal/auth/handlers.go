package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yu1chiro/elib-smantiara/internal/audit"
)

// Controller handles authentication-related HTTP endpoints.
type Controller struct {
	service      *Service
	sessions     *SessionManager
	auditService *audit.Service
}

// NewController creates a new authentication controller. The audit service
// may be nil.
func NewController(service *Service, sessions *SessionManager, auditService *audit.Service) *Controller {
	return &Controller{
		service:      service,
		sessions:     sessions,
		auditService: auditService,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/login", ac.Login)
	router.POST("/api/logout", ac.Logout)
	router.GET("/api/check-auth", RequireAuth(ac.sessions), ac.CheckAuth)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validates the submitted credential and establishes a session.
// POST /api/login
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.denyLogin(c, err)
		return
	}

	if err := ac.service.Authenticate(req.Username, req.Password); err != nil {
		ac.denyLogin(c, err)
		return
	}

	if err := ac.sessions.CreateSession(c.Request, req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create session",
		})
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogAuth("login", c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
	})
}

func (ac *Controller) denyLogin(c *gin.Context, err error) {
	if ac.auditService != nil {
		ac.auditService.LogAuth("login", c.ClientIP(), err)
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "invalid username or password",
	})
}

// Logout destroys the session unconditionally.
// POST /api/logout
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessions.DestroySession(c.Request)

	if ac.auditService != nil {
		ac.auditService.LogAuth("logout", c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out",
	})
}

// CheckAuth reports whether the caller holds a valid session. Runs behind
// RequireAuth, so reaching the handler means the session is valid.
// GET /api/check-auth
func (ac *Controller) CheckAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": ac.sessions.Username(c.Request),
	})
}
