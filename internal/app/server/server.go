package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payadmin/internal/domain/audit"
	"payadmin/internal/domain/auth"
	"payadmin/internal/domain/company"
	"payadmin/internal/domain/compensation"
	"payadmin/internal/domain/payroll"
	"payadmin/internal/platform/config"
	"payadmin/internal/platform/db"
	authhandler "payadmin/internal/transport/http/handlers/auth"
	companyhandler "payadmin/internal/transport/http/handlers/company"
	compensationhandler "payadmin/internal/transport/http/handlers/compensation"
	payrollhandler "payadmin/internal/transport/http/handlers/payroll"
	"payadmin/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	recorder := audit.New(pool)
	authStore := auth.NewStore(pool)
	companyService := company.NewService(company.NewStore(pool))
	compensationService := compensation.NewService(compensation.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			companyhandler.NewHandler(companyService, recorder).RegisterRoutes(r)
			compensationhandler.NewHandler(compensationService, recorder).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, recorder).RegisterRoutes(r)
		})
	})

	log.Printf("payadmin server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
