package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carepath-api/internal/adapters/http/routes"
	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/config"
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/cache"
	"carepath-api/internal/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	_ "carepath-api/docs" // Swagger docs
)

// @title CarePath API
// @version 1.0
// @description Clinic program management API: patients, programs, sessions, enrollments, attendance and medication dispensing.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "carepath",
		Short: "CarePath clinic program management API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			log.Info().Str("driver", cfg.Database.Driver).Msg("✅ Database migration completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			return config.NewSeeder(db, cfg).Run(cmd.Context())
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the program status sweep once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			c, err := cache.New(cfg.Cache.Driver, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
			if err != nil {
				return err
			}
			defer c.Close()

			svc := routes.NewServices(db, c, cfg)
			result, err := svc.Program.SweepStatuses(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().
				Int64("completed", result.Completed).
				Int64("ongoing", result.Ongoing).
				Int64("upcoming", result.Upcoming).
				Msg("✅ Program sweep finished")
			return nil
		},
	}
}

// bootstrap loads configuration, initializes logging and opens the database
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func runServer() error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("✅ Database migration completed")

	ctx := context.Background()
	if err := config.NewSeeder(db, cfg).Run(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to seed database")
	}

	c, err := cache.New(cfg.Cache.Driver, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer c.Close()

	app := routes.NewApp(cfg)
	svc := routes.NewServices(db, c, cfg)
	routes.Setup(app, db, svc, cfg)

	cronService := services.NewCronService(svc.Program, cfg.Scheduler.ProgramSweepSpec, cfg.Location())
	if err := cronService.Start(); err != nil {
		return err
	}
	defer cronService.Stop()

	go gracefulShutdown(app.ShutdownWithTimeout)

	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Msg("✅ Server stopped gracefully")
	return nil
}

// gracefulShutdown waits for SIGINT/SIGTERM and stops accepting requests
func gracefulShutdown(shutdown func(time.Duration) error) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")
	if err := shutdown(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("❌ Error during shutdown")
	}
}
