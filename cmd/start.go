package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"datajoin/core/config"
	"datajoin/core/database"
	"datajoin/core/loader"
	"datajoin/core/logger"
	"datajoin/core/middleware/auth"
	"datajoin/core/middleware/rayid"
	"datajoin/core/reconcile"
	"datajoin/core/storage"

	"datajoin/feature/assets"
	"datajoin/feature/session"
	"datajoin/feature/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the datajoin server",
	Long:  `Starts the HTTP server, initializes all enabled features, and polls the tracked sources.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Register Features and their sources
		mgr := loader.NewManager(logg)
		registry := reconcile.NewRegistry()
		mgr.Register(session.NewFeature(logg))

		if cfg.Storage.Bucket == "" {
			logg.Info("No storage bucket configured, assets feature skipped")
		} else if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			f := assets.NewFeature(store, cfg.Storage.Bucket, cfg.Reconcile, logg)
			mgr.Register(f)
			mustRegister(logg, registry, f.Service().Tracker())
		}

		if cfg.Reconcile.Table != "" {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed", zap.Error(err))
			} else if f, err := tables.NewFeature(db, cfg.Reconcile, logg); err != nil {
				logg.Warn("Table feature disabled", zap.String("table", cfg.Reconcile.Table), zap.Error(err))
			} else {
				mgr.Register(f)
				mustRegister(logg, registry, f.Service().Tracker())
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, requests are not authenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		registerSourceRoutes(app, registry, logg)

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Background reconciliation
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if interval := cfg.Reconcile.Interval(); interval > 0 {
			for _, name := range registry.Names() {
				s, _ := registry.Get(name)
				go func() {
					if err := reconcile.Poll(ctx, s, interval, logg, nil); err != nil {
						logg.Error("Polling stopped", zap.String("source", name), zap.Error(err))
					}
				}()
			}
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.Strings("features", mgr.Features()),
				zap.Strings("sources", registry.Names()),
			)
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func mustRegister(logg *zap.Logger, registry *reconcile.Registry, s reconcile.Syncer) {
	if err := registry.Register(s); err != nil {
		logg.Fatal("Failed to register source", zap.Error(err))
	}
}

// registerSourceRoutes exposes the registry of tracked sources.
func registerSourceRoutes(app fiber.Router, registry *reconcile.Registry, logg *zap.Logger) {
	group := app.Group("/sources")
	group.Get("/", func(c *fiber.Ctx) error {
		last := make(map[string]*reconcile.Report)
		for _, name := range registry.Names() {
			s, _ := registry.Get(name)
			last[name] = s.Last()
		}
		return c.JSON(last)
	})
	group.Get("/sync", func(c *fiber.Ctx) error {
		reports, err := registry.SyncAll(c.Context())
		if err != nil {
			logger.WithRayID(logg, c).Error("Source sync failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(reports)
	})
}
