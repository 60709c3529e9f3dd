package router

import (
	"context"
	"fmt"
	"net/http"

	"dreamstay-backend/internal/application/generation"
	healthsvc "dreamstay-backend/internal/application/health"
	imagesvc "dreamstay-backend/internal/application/images"
	lesvc "dreamstay-backend/internal/application/listingevents"
	listsvc "dreamstay-backend/internal/application/listings"
	"dreamstay-backend/internal/config"
	"dreamstay-backend/internal/infrastructure/database"
	"dreamstay-backend/internal/infrastructure/imagestore"
	"dreamstay-backend/internal/infrastructure/messaging"
	"dreamstay-backend/internal/infrastructure/openai"
	healthhandler "dreamstay-backend/internal/interfaces/handlers/health"
	imghandler "dreamstay-backend/internal/interfaces/handlers/images"
	listhandler "dreamstay-backend/internal/interfaces/handlers/listings"
	"dreamstay-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds every client once and wires the routes. Redis and NATS are optional.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
		IdleTimeout:           cfg.IdleTimeout,
	})

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opt)
	}

	probes := map[string]healthsvc.Pinger{}

	var store imagesvc.Store
	if cfg.MinioEndpoint != "" {
		ms, err := imagestore.NewMinioStore(context.Background(), imagestore.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		store = ms
		probes["imageStore"] = ms
	} else {
		store = &imagestore.LocalStore{Dir: cfg.ImageDir}
	}

	events := &lesvc.Service{DB: db}
	if cfg.NatsURL != "" {
		pub, err := messaging.NewNATSPublisher(cfg.NatsURL)
		if err != nil {
			return nil, nil, nil, err
		}
		events.Publisher = pub
		probes["nats"] = healthsvc.PingerFunc(pub.Ping)
		app.Hooks().OnShutdown(func() error {
			pub.Close()
			return nil
		})
	}
	if rdb != nil {
		app.Hooks().OnShutdown(rdb.Close)
	}

	ai := openai.New(openai.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	})
	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	probes["textService"] = healthsvc.HTTPProbe{URL: baseURL + "/models"}

	ls := &listsvc.Service{
		Content: generation.NewGenerator(ai),
		Store:   &listsvc.GormStore{DB: db},
		Images: &imagesvc.Synthesizer{
			Generator: ai,
			Store:     store,
			Client:    &http.Client{Timeout: cfg.ImageFetchTimeout},
			Size:      cfg.ImageSize,
		},
		Events: events,
	}

	app.Use(middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		Probes:         probes,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	lh := &listhandler.Handlers{Service: ls, Events: events}
	lg := app.Group("/api/listings")
	lg.Post("/generate", lh.Generate)
	lg.Get("/", lh.List)
	lg.Get("/:id", lh.Get)
	lg.Get("/:id/events", lh.ListEvents)

	ih := &imghandler.Handlers{Store: store}
	app.Get("/img/:file", ih.Serve)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	})

	log.Debug().Bool("postgres", database.IsPostgres(cfg.DatabaseURL)).Bool("redis", rdb != nil).Bool("nats", cfg.NatsURL != "").
		Bool("minio", cfg.MinioEndpoint != "").Msg("app created")
	return app, db, rdb, nil
}
