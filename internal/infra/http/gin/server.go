package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"wayfare/internal/infra/config"
	"wayfare/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	AddPayment(c *gin.Context)
	Cancel(c *gin.Context)
	Complete(c *gin.Context)
	SettleRefund(c *gin.Context)
	AddReview(c *gin.Context)
	Get(c *gin.Context)
	ListByUser(c *gin.Context)
}

type AnalyticsHTTP interface {
	Summary(c *gin.Context)
	ExportReport(c *gin.Context)
}

type Handlers struct {
	Booking   BookingHTTP
	Analytics AnalyticsHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/payments", h.Booking.AddPayment)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/complete", h.Booking.Complete)
		api.POST("/bookings/:id/refund-settled", h.Booking.SettleRefund)
		api.POST("/bookings/:id/reviews", h.Booking.AddReview)
		api.GET("/users/:id/bookings", h.Booking.ListByUser)
	}
	if h.Analytics != nil {
		api.GET("/analytics/summary", h.Analytics.Summary)
		api.POST("/analytics/reports", h.Analytics.ExportReport)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
