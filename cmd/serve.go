package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/floor"
	"github.com/yeremiapane/restaurant-reservations/router"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the floor display websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}
			utils.ConfigureJWT(cfg.JWTSecret, cfg.TokenTTL)

			if err := database.Seed(cmd.Context(), store, database.SeedOptions{
				TableCapacities: cfg.TableCapacities,
				AdminEmail:      cfg.AdminEmail,
				AdminPassword:   cfg.AdminPassword,
			}); err != nil {
				return err
			}

			if !cfg.SMTPConfigured() {
				utils.InfoLogger.Warn("SMTP not configured, notification emails will only be logged")
			}
			hub := floor.NewHub()
			sender := services.NewSMTPSender(services.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				FromName: cfg.SMTPFromName,
			})
			dispatcher := services.NewNotificationDispatcher(sender, hub, cfg.SMTPFromName, cfg.NotifyQueueSize)
			dispatcher.Start()

			svc := services.NewReservationService(store,
				services.WithLocation(cfg.Location),
				services.WithPublisher(dispatcher),
			)

			r := router.SetupRouter(store, svc, hub, router.Options{
				CORSOrigins:    cfg.CORSOrigins,
				RateLimitRPS:   cfg.RateLimitRPS,
				RateLimitBurst: cfg.RateLimitBurst,
				ReportTitle:    cfg.SMTPFromName,
				Now:            func() time.Time { return time.Now().In(cfg.Location) },
			})
			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				dispatcher.Stop()
				return err
			case <-ctx.Done():
			}

			utils.InfoLogger.Println("Shutdown signal received, shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			hub.CloseAll()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
			}
			// kirim notifikasi yang masih antre
			dispatcher.Stop()
			utils.InfoLogger.Println("Server exited")
			return nil
		},
	}
}
