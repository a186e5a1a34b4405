package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-dash/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	cookieOpts CookieOptions,
	authH *AuthHandler,
	userH *UserHandler,
	favH *FavoritesHandler,
	cryptoH *CryptoHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := AuthMiddleware(jwtSvc, cookieOpts)

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.GET("/session", authH.Session)
	auth.GET("/verify", authH.Verify)
	auth.POST("/logout", requireAuth, authH.Logout)

	favorites := r.Group("/favorites", requireAuth)
	favorites.GET("", favH.List)
	favorites.POST("", favH.Add)
	favorites.DELETE("", favH.Remove)

	user := r.Group("/user", requireAuth)
	user.GET("/profile", userH.GetProfile)
	user.PUT("/profile", userH.UpdateProfile)
	user.PUT("/settings", userH.UpdateSettings)
	user.POST("/password", userH.ChangePassword)

	crypto := r.Group("/crypto")
	crypto.GET("", cryptoH.Markets)
	crypto.GET("/:id", cryptoH.Coin)

	return r
}
