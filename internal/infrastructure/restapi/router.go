package restapi

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions configures the optional surfaces of the router.
type RouterOptions struct {
	AllowedOrigins  []string
	SwaggerEnabled  bool
	SwaggerPath     string
	SwaggerSpecFile string
	PprofEnabled    bool
}

// Handlers groups the API handlers mounted by SetupRouter.
type Handlers struct {
	Portfolio *PortfolioHandler
	Session   *SessionHandler
	Price     *PriceHandler
}

// SetupRouter configures and returns the gin engine.
func SetupRouter(h Handlers, zapLogger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolios/:walletAddress", h.Portfolio.GetWalletPortfolioHandler)

		session := v1.Group("/session")
		session.GET("", h.Session.GetStateHandler)
		session.PUT("/wallet", h.Session.ConnectHandler)
		session.DELETE("/wallet", h.Session.DisconnectHandler)
		session.POST("/refresh", h.Session.RefreshHandler)
		session.DELETE("/error", h.Session.ClearErrorHandler)
		session.GET("/stream", h.Session.StreamHandler)

		v1.GET("/prices", h.Price.GetPricesHandler)
		v1.DELETE("/prices/cache", h.Price.ClearCacheHandler)
	}

	if opts.SwaggerEnabled {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecFile)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET(opts.SwaggerPath+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
		zapLogger.Info("Swagger UI enabled", zap.String("path", opts.SwaggerPath+"/index.html"))
	}

	if opts.PprofEnabled {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		}
		zapLogger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	return router
}
