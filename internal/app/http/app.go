package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "tkphotos/internal/middleware"
	httprouters "tkphotos/internal/transport/http"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/gorilla/sessions"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

type Options struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    string
	AllowOrigins []string

	TokenSecret string

	SessionSecret string
	SessionMaxAge int
	SessionSecure bool

	// ContactRatePerMinute and ContactBurst bound the contact form per client IP.
	ContactRatePerMinute float64
	ContactBurst         int

	// StaticDir is served at /uploads when photos are kept on local disk.
	StaticDir string

	HealthChecks map[string]httprouters.HealthCheck
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Validator = httprouters.NewValidator()

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if len(opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, httprouters.AccessKeyHeader},
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(middleware.Recover())
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogMethod:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("statsviz start with error", slog.String("error", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("port", s.opts.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) jwtMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.opts.TokenSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		},
	})
}

func (s *Server) contactLimiter() echo.MiddlewareFunc {
	perMinute := s.opts.ContactRatePerMinute
	if perMinute <= 0 {
		perMinute = 3
	}
	burst := s.opts.ContactBurst
	if burst <= 0 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perMinute / 60),
			Burst:     burst,
			ExpiresIn: 10 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, response.ErrorResponseWithDetails("too_many_requests", "Please try again later"))
		},
	})
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/health", r.Health(s.opts.HealthChecks))
	s.e.GET("/metrics", echoprometheus.NewHandler())
	if s.opts.StaticDir != "" {
		s.e.Static("/uploads", s.opts.StaticDir)
	}

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.Login)
		authGroup.POST("/refresh", r.Refresh)
		authGroup.POST("/logout", r.Logout)
		authGroup.GET("/me", r.Me, s.jwtMiddleware(), r.LoadOperator)
	}

	api.GET("/homepage", r.Homepage)
	api.GET("/galleries", r.PublicGalleries)
	api.GET("/galleries/feed", r.PublicFeed)
	api.GET("/galleries/:slug", r.GalleryBySlug)
	api.GET("/photos/featured", r.FeaturedPhotos)
	api.GET("/collections", r.AllCollections)
	api.GET("/collections/:slug", r.CollectionBySlug)
	api.POST("/contact", r.SubmitContact, s.contactLimiter())

	dashboard := api.Group("/dashboard", s.jwtMiddleware(), r.LoadOperator)
	{
		dashboard.GET("/stats", r.DashboardStats)
		dashboard.POST("/access-keys", r.GenerateAccessKey)
		dashboard.GET("/slug", r.PreviewSlug)

		galleryGroup := dashboard.Group("/galleries")
		galleryGroup.GET("", r.ListGalleries)
		galleryGroup.POST("", r.CreateGallery)
		galleryGroup.GET("/feed", r.GalleryFeed)
		galleryGroup.GET("/:id", r.GetGallery)
		galleryGroup.PATCH("/:id", r.UpdateGallery)
		galleryGroup.DELETE("/:id", r.DeleteGallery)
		galleryGroup.POST("/:id/uploads", r.OpenUpload)

		photoGroup := dashboard.Group("/photos")
		photoGroup.GET("", r.ListPhotos)
		photoGroup.POST("", r.CreatePhoto)
		photoGroup.GET("/:id", r.GetPhoto)
		photoGroup.DELETE("/:id", r.DeletePhoto)
		photoGroup.POST("/:id/featured", r.ToggleFeatured)
		photoGroup.POST("/:id/cover", r.SetCover)

		collectionGroup := dashboard.Group("/collections")
		collectionGroup.GET("", r.ListCollections)
		collectionGroup.POST("", r.CreateCollection)
		collectionGroup.GET("/:id", r.GetCollection)
		collectionGroup.PATCH("/:id", r.UpdateCollection)
		collectionGroup.DELETE("/:id", r.DeleteCollection)
		collectionGroup.POST("/:id/galleries", r.LinkGallery)
		collectionGroup.DELETE("/:id/galleries/:gallery_id", r.UnlinkGallery)

		uploadGroup := dashboard.Group("/uploads")
		uploadGroup.GET("/:id", r.GetUpload)
		uploadGroup.DELETE("/:id", r.CancelUpload)
		uploadGroup.POST("/:id/files", r.AddUploadFiles)
		uploadGroup.POST("/:id/persist", r.PersistUpload)
	}

	admin := api.Group("/admin", s.jwtMiddleware(), r.LoadOperator, httprouters.RequireAdmin)
	{
		admin.GET("/photos/update-metadata", r.UpdateMetadataHint)
		admin.POST("/photos/update-metadata", r.UpdateMetadata)
	}
}
