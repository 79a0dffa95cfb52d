package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/postboard/blog-api/docs"
	"github.com/postboard/blog-api/internal/api/handler"
	"github.com/postboard/blog-api/internal/api/middleware"
	"github.com/postboard/blog-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log    zerolog.Logger
	Tokens ports.TokenValidator
	Auth   ports.AuthService
	Users  ports.UserService
	Posts  ports.PostService
	Votes  ports.VoteService

	ReadinessChecks []handler.Check

	// Registry receives the HTTP request metrics and backs /metrics. Nil
	// means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "blog api"})
	})
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.ReadinessChecks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public ---
	users := handler.NewUserHandler(d.Auth, d.Users)
	e.POST("/users", users.Create)
	e.GET("/users/:id", users.Get)
	e.POST("/login", handler.NewAuthHandler(d.Auth).Login)

	// --- Bearer protected ---
	authed := middleware.Auth(d.Tokens)

	posts := handler.NewPostHandler(d.Posts)
	g := e.Group("/posts", authed)
	g.GET("", posts.List)
	// literal segment first so it is not parsed as an id
	g.GET("/owner", posts.ListOwn)
	g.POST("", posts.Create)
	g.GET("/:id", posts.Get)
	g.PUT("/:id", posts.Update)
	g.DELETE("/:id", posts.Delete)

	e.POST("/vote", handler.NewVoteHandler(d.Votes).Vote, authed)

	return e
}
