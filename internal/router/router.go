package router

import (
	"net/http"
	"time"

	"salespulse/internal/config"
	"salespulse/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

// Setup builds the Gin engine with recovery, request logging, CORS, security
// headers, cookie sessions for the form draft and all API routes.
func Setup(log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("salespulse_session", store))

	authHandler := handlers.NewAuthHandler(log)
	surveyHandler := handlers.NewSurveyHandler(log)
	responseHandler := handlers.NewResponseHandler(log)
	analyticsHandler := handlers.NewAnalyticsHandler(log)
	formHandler := handlers.NewFormHandler(log)
	chartsHandler := handlers.NewChartsHandler(log, analyticsHandler)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	loginLimiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", loginLimiter, authHandler.Login)
		api.GET("/surveys/:id", surveyHandler.Get)
		api.POST("/responses", responseHandler.Submit)

		analyticsRoutes := api.Group("/analytics")
		analyticsRoutes.Use(BearerAuth(log))
		{
			analyticsRoutes.GET("/summary", analyticsHandler.Summary)
			analyticsRoutes.GET("/process", analyticsHandler.Process)
			analyticsRoutes.GET("/collaboration", analyticsHandler.Collaboration)
		}

		formRoutes := api.Group("/form")
		{
			formRoutes.POST("/start", formHandler.Start)
			formRoutes.GET("", formHandler.Get)
			formRoutes.POST("/answer", formHandler.Answer)
			formRoutes.POST("/next", formHandler.Next)
			formRoutes.POST("/prev", formHandler.Previous)
			formRoutes.POST("/submit", formHandler.Submit)
			formRoutes.POST("/restart", formHandler.Restart)
		}
	}

	dashboard := router.Group("/dashboard")
	dashboard.Use(BearerAuth(log))
	{
		dashboard.GET("/charts/time-allocation", chartsHandler.TimeAllocation)
	}

	return router
}
