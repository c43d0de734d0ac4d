package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"voxdesk/internal/handlers"
	"voxdesk/internal/metrics"
	"voxdesk/internal/middleware"
	"voxdesk/internal/service"
	"voxdesk/internal/voice"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, repo, err := a.openRepository(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			reg := prometheus.NewRegistry()
			metrics.Register(reg)

			voiceClient := voice.NewClient(a.cfg.Voice.CallURL, a.cfg.Voice.APIKey, a.cfg.Voice.Timeout)
			router := handlers.NewRouter(handlers.RouterDeps{
				Contacts: handlers.NewContactHandler(
					service.NewContactService(repo, a.log),
					service.NewImportService(repo, a.log, nil),
					a.log,
				),
				Calls:       handlers.NewCallHandler(service.NewCallService(voiceClient, a.log), a.log),
				RateLimiter: middleware.NewRateLimiter(rate.Limit(a.cfg.RateLimit.PerSecond), a.cfg.RateLimit.Burst),
				Gatherer:    reg,
				Log:         a.log,
			})

			server := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Infow("server starting", "addr", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Infow("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
