package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/config"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/database"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/engine"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/handler"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/middleware"
	mongorepo "github.com/tahir-04/hybrid-intrusion-detection-system/internal/repository/mongo"
	sqlrepo "github.com/tahir-04/hybrid-intrusion-detection-system/internal/repository/sql"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/replay"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/scorer"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
)

func main() {
	// 1. Config
	cfg := config.Load()
	log.Printf("🚀 Starting Hybrid IDS in %s mode...", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Rule set (fatal if missing or malformed)
	evaluator, err := rules.FromFile(cfg.RulesPath)
	if err != nil {
		log.Fatalf("❌ Rule load failed: %v", err)
	}
	log.Printf("✅ Loaded %d detection rules from %s", evaluator.Len(), cfg.RulesPath)

	// 3. Anomaly scorer (fatal if artifacts/service unavailable)
	scorerClient, err := scorer.NewClient(cfg.ScorerURL, cfg.ScorerTimeout)
	if err != nil {
		log.Fatalf("❌ Scorer init failed: %v", err)
	}
	log.Printf("✅ Scorer ready: %d features in canonical order", len(scorerClient.RequiredFeatures()))

	// 4. Databases
	mongoClient, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	var alertRepo core.AlertRepository
	if cfg.AlertBackend == "mysql" {
		alertDB, err := database.ConnectSQL(cfg.AlertDBUser, cfg.AlertDBPass, cfg.AlertDBHost, cfg.AlertDBName)
		if err != nil {
			log.Fatalf("❌ Alert database connection failed: %v", err)
		}
		defer alertDB.Close()
		alertRepo, err = sqlrepo.NewAlertRepository(alertDB)
		if err != nil {
			log.Fatalf("❌ Alert table setup failed: %v", err)
		}
		log.Printf("✅ Alert archive: mysql (%s)", cfg.AlertDBHost)
	} else {
		alertRepo = mongorepo.NewAlertRepository(mongoClient)
		log.Printf("✅ Alert archive: mongo")
	}

	userRepo := mongorepo.NewUserRepository(mongoClient)
	ruleRepo := mongorepo.NewRuleRepository(mongoClient)

	// 5. Services
	opts := engine.Options{
		MLWeight:       cfg.MLWeight,
		RuleWeight:     cfg.RuleWeight,
		AlertThreshold: cfg.AlertThreshold,
	}
	detection, err := service.NewDetectionService(scorerClient, alertRepo, evaluator, opts)
	if err != nil {
		log.Fatalf("❌ Detection service init failed: %v", err)
	}
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)

	// 6. Replay (optional, runs alongside the API)
	if cfg.ReplayPath != "" {
		runner := replay.New(detection, cfg.ReplayPath, cfg.ReplayInterval)
		go func() {
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("⚠️ Replay stopped: %v", err)
			}
		}()
	}

	// 7. Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.AppEnv == "production")
	alertHandler := handler.NewAlertHandler(alertRepo, detection)
	ruleHandler := handler.NewRuleHandler(ruleRepo, detection)
	systemHandler := handler.NewSystemHandler(mongoClient, scorerClient)

	// 8. Routes
	mux := http.NewServeMux()
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// --- Public API ---
	mux.HandleFunc("/api/status", systemHandler.SystemStatus)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/logout", authHandler.Logout)
	mux.Handle("/metrics", promhttp.Handler())

	// --- Protected API ---
	mux.HandleFunc("/api/auth/check", authMiddleware(authHandler.CheckAuth))
	mux.HandleFunc("/api/alerts", authMiddleware(alertHandler.ListAlerts))
	mux.HandleFunc("/api/evaluate", authMiddleware(alertHandler.Evaluate))
	mux.HandleFunc("/api/rules", authMiddleware(ruleHandler.ListRules))
	mux.HandleFunc("/api/rules/add", authMiddleware(ruleHandler.AddRule))
	mux.HandleFunc("/api/rules/delete", authMiddleware(ruleHandler.DeleteRule))
	mux.HandleFunc("/api/rules/reload", authMiddleware(ruleHandler.ReloadRules))

	// 9. Middleware chain
	loggedRouter := middleware.RequestLogger(mux)
	finalHandler := middleware.CORS(cfg.AllowedOrigins)(loggedRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("✅ API server running on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}
