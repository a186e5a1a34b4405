package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-dash/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger     *zap.Logger
	userServ   *service.UserService
	jwtServ    *service.JWTService
	cookieOpts CookieOptions
}

func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService, cookieOpts CookieOptions) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		userServ:   userServ,
		jwtServ:    jwtServ,
		cookieOpts: cookieOpts,
	}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	_, err := h.userServ.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		var policyErr *service.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password too weak", "details": policyErr.Errors})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "an account with this email already exists"})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "account created, you can now sign in",
		"redirect": "/login",
	})
}

// Login maneja POST /auth/login: valida credenciales, emite el token y lo
// entrega como cookie y en el cuerpo de la respuesta.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect email or password"})
		case errors.Is(err, service.ErrRateLimited):
			c.Header("Retry-After", "900")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		}
		return
	}

	token, err := h.jwtServ.Generate(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	setAuthCookie(c, token, h.cookieOpts)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout maneja POST /auth/logout. Sólo sobreescribe la cookie con un valor
// expirado: el token firmado sigue siendo válido hasta su expiración natural.
func (h *AuthHandler) Logout(c *gin.Context) {
	clearAuthCookie(c, h.cookieOpts)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session maneja GET /auth/session. Nunca lanza: devuelve un resultado
// etiquetado con authenticated true/false.
func (h *AuthHandler) Session(c *gin.Context) {
	h.verifyCookie(c)
}

// Verify maneja GET /auth/verify, misma semántica que Session.
func (h *AuthHandler) Verify(c *gin.Context) {
	h.verifyCookie(c)
}

func (h *AuthHandler) verifyCookie(c *gin.Context) {
	token, err := c.Cookie(authCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	claims, err := h.jwtServ.Parse(token)
	if err != nil {
		clearAuthCookie(c, h.cookieOpts)
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	user, err := h.userServ.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			clearAuthCookie(c, h.cookieOpts)
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
			return
		}
		h.logger.Error("session lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}
