package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ideawall/ideawall/docs"
	"github.com/ideawall/ideawall/internal/api/handler"
	"github.com/ideawall/ideawall/internal/api/middleware"
	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/service"
	mongodb "github.com/ideawall/ideawall/internal/infrastructure/db/mongo"
	redisdb "github.com/ideawall/ideawall/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The emitter is the already-started relation event dispatcher.
func NewRouter(
	client *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	jwtSecret string,
	emitter service.RelationEventEmitter,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ideawall"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	followRepo := mongodb.NewFollowRepository(client, db)
	ideaRepo := mongodb.NewIdeaRepository(db)
	pairLock := redisdb.NewPairLock(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, followRepo, ideaRepo, log)
	followService := service.NewFollowService(userRepo, followRepo, pairLock, emitter, log)
	ideaService := service.NewIdeaService(ideaRepo, log)
	feedService := service.NewFeedService(ideaRepo, followRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	followHandler := handler.NewFollowHandler(followService)
	ideaHandler := handler.NewIdeaHandler(ideaService)
	feedHandler := handler.NewFeedHandler(feedService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	v1.POST("/follow/requests", followHandler.Request)
	v1.GET("/follow/requests", followHandler.ListRequests)
	v1.POST("/follow/requests/respond", followHandler.Respond)
	v1.GET("/followers", followHandler.Followers)
	v1.DELETE("/followers/:username", followHandler.RemoveFollower)
	v1.GET("/followed", followHandler.Followed)
	v1.DELETE("/followed/:username", followHandler.RemoveFollowed)

	v1.POST("/ideas", ideaHandler.Create)
	v1.PATCH("/ideas/:id", ideaHandler.Update)
	v1.DELETE("/ideas/:id", ideaHandler.Delete)

	v1.GET("/feed", feedHandler.Global)
	v1.GET("/feed/mine", feedHandler.Own)
	v1.GET("/feed/:username", feedHandler.Author)

	v1.GET("/users", userHandler.Search)
	v1.PATCH("/users/me", userHandler.UpdateProfile)
	v1.DELETE("/users/me", userHandler.DeleteAccount)

	admin := v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", userHandler.ListAll)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
