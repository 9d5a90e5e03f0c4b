package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/api/guard"
	"github.com/quillhub/blog/internal/api/handler"
	"github.com/quillhub/blog/internal/api/middleware"
	"github.com/quillhub/blog/internal/core/ports"
	opshttp "github.com/quillhub/blog/internal/infrastructure/http"
	"github.com/quillhub/blog/internal/infrastructure/http/handlers"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth          ports.AuthService
	Users         ports.UserService
	Posts         ports.PostService
	Subscriptions ports.SubscriptionService
	Notifications ports.NotificationService

	// HealthChecks back /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Check
	CookieSecure bool
	// Registerer receives the HTTP metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}))
	e.Use(middleware.Session(deps.Auth))

	// --- Ops routes (no session required) ---
	opshttp.RegisterOpsRoutes(e, deps.HealthChecks)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"docs": "/swagger/index.html"})
	})

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.CookieSecure)
	postHandler := handler.NewPostHandler(deps.Posts, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users, deps.Auth)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.Subscriptions)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)

	// --- Guard pipelines ---
	loggedIn := guard.New(
		guard.LoginOrContinue(guard.SessionRequired),
		guard.LoadLoggedInUser(deps.Users),
	)
	anyReader := guard.New(
		guard.LoginOrContinue(guard.AnonymousReads),
		guard.LoadLoggedInUser(deps.Users),
	)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Post routes ---
	posts := e.Group("/posts")
	posts.POST("", loggedIn.Handle(postHandler.Create))
	posts.GET("", loggedIn.Handle(postHandler.List))
	posts.GET("/:slug", anyReader.Then(
		guard.LoadPost(deps.Posts, "slug"),
		guard.PublicOrOwned(),
	).Handle(postHandler.Get))

	ownPost := loggedIn.Then(guard.LoadPost(deps.Posts, "slug"), guard.PostOwnedByUser())
	posts.PUT("/:slug", ownPost.Handle(postHandler.Update))
	posts.DELETE("/:slug", ownPost.Handle(postHandler.Remove))

	e.GET("/feed", loggedIn.Handle(postHandler.Feed))

	// --- User routes ---
	users := e.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)

	namedUser := anyReader.Then(guard.LoadUser(deps.Users, "username"))
	users.GET("/:username", namedUser.Handle(userHandler.Get))
	users.GET("/:username/posts", namedUser.Handle(postHandler.ListByUser))

	self := loggedIn.Then(guard.LoadUser(deps.Users, "username"), guard.SelfOnly())
	users.PUT("/:username", self.Handle(userHandler.Update))
	users.DELETE("/:username", self.Handle(userHandler.Remove))

	// --- Subscription routes ---
	subs := e.Group("/subscriptions")
	subs.POST("", loggedIn.Handle(subscriptionHandler.Create))
	subs.GET("", loggedIn.Handle(subscriptionHandler.List))

	ownSub := loggedIn.Then(
		guard.LoadSubscription(deps.Subscriptions, "id"),
		guard.SubscriptionOwnedByUser(),
	)
	subs.GET("/:id", ownSub.Handle(subscriptionHandler.Get))
	subs.PUT("/:id", ownSub.Handle(subscriptionHandler.Update))
	subs.DELETE("/:id", ownSub.Handle(subscriptionHandler.Remove))

	// --- Notifications ---
	e.GET("/notifications", loggedIn.Handle(notificationHandler.List))

	return e
}
