package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylibrary/internal/auth"
)

// SessionsController handles login, logout and session introspection.
type SessionsController struct {
	authService    *auth.Service
	sessionManager *auth.SessionManager
}

// NewSessionsController creates a new SessionsController.
func NewSessionsController(authService *auth.Service, sessionManager *auth.SessionManager) *SessionsController {
	return &SessionsController{
		authService:    authService,
		sessionManager: sessionManager,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and establishes a session.
// POST /api/auth/login
func (sc *SessionsController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := sc.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountLocked) {
			respondError(c, http.StatusForbidden, "account is temporarily locked")
			return
		}
		// Wrong username and wrong password look the same to the client.
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := sc.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout destroys the current session.
// POST /api/auth/logout
func (sc *SessionsController) Logout(c *gin.Context) {
	if err := sc.sessionManager.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "logged out")
}

// Me returns the authenticated user's identity and a CSRF token for
// state-changing requests.
// GET /api/auth/me
func (sc *SessionsController) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    userID,
		"username":   auth.GetUsername(c),
		"role":       auth.GetUserRole(c),
		"csrf_token": auth.GetCSRFToken(c),
	})
}
