package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *engineEnv) http.Handler {
	api := &apiServer{env: env}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", api.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/property-owners", func(r chi.Router) {
			r.Post("/", api.registerPropertyOwner)
			r.Get("/", api.listPropertyOwners)
			r.Get("/{id}", api.getPropertyOwner)
			r.Get("/{id}/recommendations", api.propertyRecommendations)
			r.Patch("/{id}/contact", api.updatePropertyContact)
		})
		r.Route("/franchises", func(r chi.Router) {
			r.Post("/", api.registerFranchise)
			r.Get("/", api.listFranchises)
			r.Get("/{id}", api.getFranchise)
			r.Get("/{id}/matches", api.franchiseMatches)
			r.Patch("/{id}/contact", api.updateFranchiseContact)
		})
		r.Route("/entrepreneurs", func(r chi.Router) {
			r.Post("/", api.registerEntrepreneur)
			r.Get("/", api.listEntrepreneurs)
			r.Get("/{id}", api.getEntrepreneur)
			r.Get("/{id}/opportunities", api.entrepreneurOpportunities)
			r.Patch("/{id}/contact", api.updateEntrepreneurContact)
		})
		r.Get("/market/overview", api.marketOverview)
		r.Get("/market/analysis", api.marketAnalysis)
		r.Get("/stats", api.stats)
		r.Delete("/data", api.clearAll)
	})

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
