// Copyright 2026 The TroopDeck Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/troopdeck/troopdeck/internal/audit"
	"github.com/troopdeck/troopdeck/internal/authz"
	"github.com/troopdeck/troopdeck/internal/catalog"
	"github.com/troopdeck/troopdeck/internal/config"
	"github.com/troopdeck/troopdeck/internal/form"
	"github.com/troopdeck/troopdeck/internal/membership"
	"github.com/troopdeck/troopdeck/internal/observability/logger"
	"github.com/troopdeck/troopdeck/internal/observability/metrics"
	"github.com/troopdeck/troopdeck/internal/observability/tracing"
	"github.com/troopdeck/troopdeck/internal/org"
	"github.com/troopdeck/troopdeck/internal/provision"
	"github.com/troopdeck/troopdeck/internal/role"
	"github.com/troopdeck/troopdeck/internal/store/postgres"
	transportHTTP "github.com/troopdeck/troopdeck/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
		OTELEnabled: cfg.Observability.OTELEnabled,
	})
	slog.Info("starting troopdeck access control service")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if len(os.Args) > 1 && os.Args[1] == "provision" {
		if err := runProvision(cfg, os.Args[2:]); err != nil {
			fmt.Printf("Provisioning failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}
	authzMetrics, err := metrics.NewAuthzMetrics(meter)
	if err != nil {
		slog.Error("failed to initialize authz metrics", logger.Error(err))
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	deps, err := build(db, cfg)
	if err != nil {
		slog.Error("failed to initialize services", logger.Error(err))
		os.Exit(1)
	}

	// Seed the permission catalog at every startup; upserts make this
	// idempotent and keep display attributes current.
	if err := deps.provisionService.SeedCatalog(ctx); err != nil {
		slog.Error("failed to seed permission catalog", logger.Error(err))
		os.Exit(1)
	}

	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	handler := transportHTTP.NewHandler(
		deps.orgService,
		deps.roleService,
		deps.formService,
		deps.membershipService,
		deps.catalogService,
		deps.provisionService,
		deps.evaluator,
		deps.auditLogger,
		transportHTTP.AuthConfig{
			TokenSecret: cfg.Auth.TokenSecret,
			TokenIssuer: cfg.Auth.TokenIssuer,
		},
		authzMetrics,
	)

	router := transportHTTP.NewRouter(handler, rateLimiter)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

// deps bundles the wired services.
type deps struct {
	orgService        *org.Service
	roleService       *role.Service
	formService       *form.Service
	membershipService *membership.Service
	catalogService    *catalog.Service
	provisionService  *provision.Service
	evaluator         *authz.Evaluator
	auditLogger       audit.Logger
}

func connect(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	return postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
}

func build(db *postgres.DB, cfg *config.Config) (*deps, error) {
	permissionRepo := postgres.NewPermissionRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	grantRepo := postgres.NewGrantRepository(db)
	templateRepo := postgres.NewFormTemplateRepository(db)
	formGrantRepo := postgres.NewFormGrantRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	orgRepo := postgres.NewOrgRepository(db)

	auditLogger := audit.NewSlogLogger()

	evaluator, err := authz.NewEvaluator(roleRepo, grantRepo, formGrantRepo, cfg.Authz.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	catalogService := catalog.NewService(permissionRepo)
	orgService := org.NewService(orgRepo, auditLogger)
	roleService := role.NewService(roleRepo, grantRepo, permissionRepo, membershipRepo, evaluator, auditLogger)
	formService := form.NewService(templateRepo, formGrantRepo, roleRepo, evaluator, auditLogger)
	membershipService := membership.NewService(membershipRepo, roleRepo, evaluator, auditLogger)
	provisionService := provision.NewService(permissionRepo, roleRepo, grantRepo, formService, evaluator, auditLogger)

	return &deps{
		orgService:        orgService,
		roleService:       roleService,
		formService:       formService,
		membershipService: membershipService,
		catalogService:    catalogService,
		provisionService:  provisionService,
		evaluator:         evaluator,
		auditLogger:       auditLogger,
	}, nil
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

// runProvision seeds the catalog and provisions the system role set for the
// organization IDs given as arguments. With no arguments it only seeds.
func runProvision(cfg *config.Config, orgIDs []string) error {
	ctx := context.Background()
	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	d, err := build(db, cfg)
	if err != nil {
		return err
	}

	if err := d.provisionService.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	fmt.Println("Permission catalog seeded.")

	for _, orgID := range orgIDs {
		if err := d.provisionService.ProvisionOrganization(ctx, orgID); err != nil {
			return fmt.Errorf("failed to provision %s: %w", orgID, err)
		}
		fmt.Printf("Provisioned organization %s\n", orgID)
	}
	return nil
}
