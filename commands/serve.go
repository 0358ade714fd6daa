package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/debasish218/pg-manager/auth"
	"github.com/debasish218/pg-manager/config"
	"github.com/debasish218/pg-manager/controllers"
	"github.com/debasish218/pg-manager/routes"
	"github.com/debasish218/pg-manager/services"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if cfg.Seed {
				if err := config.SeedDatabase(cmd.Context(), db); err != nil {
					return err
				}
			}

			gin.SetMode(cfg.Server.Mode)
			router := routes.SetupRouter(routes.Controllers{
				Rooms:    controllers.NewRoomController(services.NewRoomService(db)),
				Tenants:  controllers.NewTenantController(services.NewTenantService(db)),
				Accounts: controllers.NewAccountController(services.NewAccountService(db)),
			}, auth.NewJWTManager(cfg.JWT), cfg.CORS.Origins)

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           router,
				ReadTimeout:       10 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      20 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}
			log.Info().Msg("shutdown signal received, shutting down server")

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			log.Info().Msg("server stopped gracefully")
			return nil
		},
	}
}
