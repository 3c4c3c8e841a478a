package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymtrack/internal/auth"
	"gymtrack/internal/cache"
	"gymtrack/internal/config"
	"gymtrack/internal/member"
	"gymtrack/internal/metrics"
	"gymtrack/internal/presence"
	"gymtrack/internal/session"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	http   *http.Server

	Presence presence.Service
}

func New(db *sqlx.DB, cfg *config.Config, sessionCache *cache.Cache) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
	)

	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, cfg.JWTSecret)
	memberHandler := member.NewHandler(memberService)

	presenceRepo := presence.NewRepository(db)
	presenceService := presence.NewService(presenceRepo, sessionCache)
	presenceHandler := presence.NewHandler(presenceService)

	// Seed the in-gym gauge from stored state so restarts don't zero it.
	if count, err := presenceRepo.CountInGym(context.Background()); err == nil {
		metrics.MembersInGym.Set(float64(count))
	}

	sessionRepo := session.NewRepository(db)
	sessionService := session.NewService(sessionRepo, memberRepo, sessionCache)
	sessionHandler := session.NewHandler(sessionService)

	// Brute-force protection on the credential endpoints only.
	public := router.Group("/auth", RateLimitMiddleware(5, 10))
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	subscriptionGate := member.RequireActiveSubscription(memberService)
	// Reads serving presence or session data first close stale open visits,
	// same operation as the scheduled run but with the short threshold.
	reconcile := presence.ReconcileOnRead(presenceService, cfg.StaleThresholdMinutes)

	protected := router.Group("/", authMiddleware, subscriptionGate)
	{
		protected.GET("/me", reconcile, memberHandler.GetMe)
		protected.POST("/members/:memberID/checkin", reconcile, presenceHandler.CheckIn)
		protected.POST("/members/:memberID/checkout", reconcile, presenceHandler.CheckOut)
		protected.GET("/members/in-gym", reconcile, memberHandler.ListInGym)
		protected.GET("/sessions", reconcile, sessionHandler.List)
		protected.GET("/members/:memberID/sessions", reconcile, sessionHandler.ListByMember)
	}

	staffMiddleware := auth.RequireRole(auth.RoleStaff)
	admin := router.Group("/admin", authMiddleware, staffMiddleware)
	{
		admin.GET("/members", reconcile, memberHandler.List)
		admin.GET("/members/:memberID", reconcile, memberHandler.Get)
		admin.PATCH("/members/:memberID", memberHandler.Update)
		admin.DELETE("/members/:memberID", memberHandler.Delete)
		// Entry point for the scheduled (e.g. midnight cron) reconciliation.
		admin.POST("/reconcile", presenceHandler.Reconcile)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router:   router,
		db:       db,
		config:   cfg,
		Presence: presenceService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
