package bootstrap

import (
	"dreamstay-backend/internal/config"
	"dreamstay-backend/internal/interfaces/router"
	"dreamstay-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for Vercel serverless (api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.IsProduction())
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
