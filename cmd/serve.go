package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raushankrgupta/virtual-try-on/api"
	"github.com/raushankrgupta/virtual-try-on/controller"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/storage"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sessionSweepInterval is how often idle browser sessions are looked for
const sessionSweepInterval = time.Minute

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the try-on web interface",
		Long: `Starts the web interface. Each browser gets its own form, result and history;
the dark-mode preference is kept in the configured preference store.`,
		Example: `  # Start on the configured port (default 8080)
  tryon serve

  # Start on a custom port against a remote backend
  BACKEND_URL=http://gpu-box:8000 tryon serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != "" {
				cfg.Port = port
			}

			store, err := storage.New(cmd.Context(), cfg.Prefs)
			if err != nil {
				return err
			}
			defer store.Close()

			secret := []byte(cfg.SessionSecret)
			if len(secret) == 0 {
				utils.Logger.Warn("SESSION_SECRET not set, browser sessions will not survive a restart")
				secret = []byte(uuid.NewString())
			}

			client := utils.NewTryOnClient(cfg.BackendURL, cfg.BackendTimeout)
			ids := utils.NewIDGenerator()
			sessions := api.NewSessionStore(func(ctx context.Context, clientID string, notify models.NotifyFunc) *controller.Controller {
				return controller.New(ctx, client, controller.Options{
					Store:    store,
					ThemeKey: storage.ThemeKeyFor(clientID),
					Notify:   notify,
					IDs:      ids,
				})
			}, api.WithIdleTTL(cfg.SessionIdleTTL), api.WithMaxSessions(cfg.MaxSessions))
			sessions.StartJanitor(cmd.Context(), sessionSweepInterval)

			gin.SetMode(cfg.Mode)
			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: api.NewRouter(sessions, secret),
			}

			serverErr := make(chan error, 1)
			go func() {
				utils.Logger.Info("try-on interface available",
					zap.String("addr", server.Addr),
					zap.String("url", "http://localhost"+server.Addr),
					zap.String("backend", cfg.BackendURL))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				utils.Logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					utils.Logger.Error("server shutdown failed", zap.Error(err))
					return err
				}
				drained := make(chan struct{})
				go func() {
					sessions.Wait()
					close(drained)
				}()
				select {
				case <-drained:
				case <-shutdownCtx.Done():
					utils.Logger.Warn("abandoning in-flight try-on requests")
				}
				utils.Logger.Info("server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
