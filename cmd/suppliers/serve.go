package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/app/categories"
	"github.com/veo1/supplier-registry/app/listing"
	"github.com/veo1/supplier-registry/app/registration"
	"github.com/veo1/supplier-registry/logging"
	"github.com/veo1/supplier-registry/models"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the suppliers API on a local address",
		Long: `Serve a JSON API over the same store the terminal UI uses.

Routes:
  GET    /categories
  GET    /suppliers?q=&category=&offset=&limit=
  POST   /suppliers
  GET    /suppliers/{id}
  PUT    /suppliers/{id}
  DELETE /suppliers/{id}`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = e.cfg.HTTP.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:         addr,
				Handler:      newRouter(e.repo, e.logger),
				ReadTimeout:  e.cfg.HTTP.ReadTimeout,
				WriteTimeout: e.cfg.HTTP.WriteTimeout,
				IdleTimeout:  e.cfg.HTTP.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				e.logger.Info("starting server", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen on %s: %w", addr, err)
				}
				return nil
			case <-ctx.Done():
			}

			e.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// newRouter wires the HTTP handlers onto repo.
func newRouter(repo *models.RecordsRepository, logger *zap.Logger) http.Handler {
	categoriesHandler := categories.NewCategoryHandler(categories.FixedCatalog{})
	registrationHandler := registration.NewRegistrationHandler(repo,
		registration.WithLogger(logger.Named("registration")))
	listingHandler := listing.NewListingHandler(repo, logger.Named("listing"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", categoriesHandler.HandleGetAll)
	mux.HandleFunc("GET /suppliers", listingHandler.HandleGet)
	mux.HandleFunc("POST /suppliers", registrationHandler.HandleCreate)
	mux.HandleFunc("GET /suppliers/{id}", listingHandler.HandleGetRecord)
	mux.HandleFunc("PUT /suppliers/{id}", listingHandler.HandleUpdate)
	mux.HandleFunc("DELETE /suppliers/{id}", listingHandler.HandleDelete)

	var handler http.Handler = mux
	handler = logging.HTTPMiddleware(logger.Named("http"))(handler)
	handler = logging.Recovery(logger)(handler)
	return handler
}
