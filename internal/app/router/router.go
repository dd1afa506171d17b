package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "gadget_backend/internal/feature/auth/transport/handler"
	cataloghandler "gadget_backend/internal/feature/catalog/transport/handler"
	"gadget_backend/internal/platform/http/handler"
	jwtmw "gadget_backend/internal/platform/jwt"
)

// Options configures the engine independently of the handlers.
type Options struct {
	// APIPrefix is the group every API route is mounted under, e.g. "/api/v1".
	APIPrefix string
	// AllowedOrigins lists the CORS origins; "*" or an empty list allows all.
	AllowedOrigins []string
}

func NewRouter(opts Options, verifier jwtmw.Verifier, authHandler *authhandler.AuthHandler,
	catalog *cataloghandler.CatalogHandler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	// トークンがあればclaimsを載せるだけで、拒否はしない
	r.Use(jwtmw.Identify(verifier))

	// 導通確認用
	r.GET("/", handler.Root)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)

	api := r.Group(opts.APIPrefix)
	{
		// 新規ユーザー登録
		api.POST("/register", authHandler.Register)
		// ログイン（JWT 発行）
		api.POST("/login", authHandler.Login)

		api.POST("/create-product", catalog.CreateProduct)
		api.GET("/products", catalog.ListProducts)
		api.GET("/products/:productId", catalog.GetProduct)
		api.GET("/popular-products", catalog.ListPopularProducts)
		api.GET("/flash-sale", catalog.ListFlashSaleProducts)

		api.POST("/create-brand", catalog.CreateBrand)
		api.GET("/brands", catalog.ListBrands)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
