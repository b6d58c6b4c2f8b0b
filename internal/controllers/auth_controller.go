package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/andikura/sipola_backend_v1/internal/middleware"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/session"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
)

type AuthController struct {
	Sessions  *session.Manager
	Coord     *syncer.Coordinator
	JWTSecret string
	TTL       time.Duration
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := a.Sessions.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, session.ErrBadCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login gagal. Periksa username dan password."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Pull remote data once the session is established; failures fall
	// back to local data and are never surfaced here.
	a.Coord.InitialLoad(c.Request.Context())

	a.respondWithToken(c, sess)
}

// Viewer enters monitoring mode without credentials.
func (a *AuthController) Viewer(c *gin.Context) {
	sess := a.Sessions.LoginAsViewer(c.Request.Context())
	a.Coord.InitialLoad(c.Request.Context())
	a.respondWithToken(c, sess)
}

func (a *AuthController) Logout(c *gin.Context) {
	a.Sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *AuthController) Me(c *gin.Context) {
	claims, _ := middleware.CurrentClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"name":        claims.Name,
		"role":        claims.Role,
		"remote_mode": a.Sessions.RemoteMode(),
	})
}

func (a *AuthController) respondWithToken(c *gin.Context, sess *models.Session) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		Name: sess.Name,
		Role: sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sipola_backend_v1",
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(a.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(a.TTL.Seconds()),
		"name":         sess.Name,
		"role":         sess.Role,
		"remote_mode":  a.Sessions.RemoteMode(),
	})
}
