// Command jeand runs the governance kernel daemon: it wires config,
// observability, stores, the kernel facade, and the capability bridge,
// then serves a small HTTP API for perception ticks and bridge messages.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeantrail/kernel/pkg/audit"
	"github.com/jeantrail/kernel/pkg/bridge"
	"github.com/jeantrail/kernel/pkg/config"
	"github.com/jeantrail/kernel/pkg/contracts"
	"github.com/jeantrail/kernel/pkg/crypto"
	"github.com/jeantrail/kernel/pkg/kernel"
	"github.com/jeantrail/kernel/pkg/observability"
	"github.com/jeantrail/kernel/pkg/policy"
	"github.com/jeantrail/kernel/pkg/store"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := config.DefaultProfile()
	if cfg.ProfilePath != "" {
		loaded, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			logger.Error("profile load failed", "path", cfg.ProfilePath, "error", err)
			os.Exit(1)
		}
		profile = loaded
	}
	logger.Info("profile active", "name", profile.Name, "autonomy_mode", profile.Autonomy.Mode)

	obs, err := observability.New(ctx, &observability.Config{
		ServiceName:  "jeand",
		Environment:  envName(cfg.ShadowMode),
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   1.0,
		BatchTimeout: 5 * time.Second,
		Enabled:      os.Getenv("OTEL_ENABLED") == "true",
		Insecure:     true,
	})
	if err != nil {
		logger.Error("observability init failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	receipts, closeReceipts, err := openReceiptStore(cfg, logger)
	if err != nil {
		logger.Error("receipt store init failed", "error", err)
		os.Exit(1)
	}
	defer closeReceipts()

	guards, err := policy.NewGuardEvaluator()
	if err != nil {
		logger.Error("guard evaluator init failed", "error", err)
		os.Exit(1)
	}
	guardSet := policy.DefaultGuards()
	for _, g := range profile.Guards {
		guardSet = append(guardSet, policy.Guard{Name: g.Name, Expr: g.Expr})
	}

	k := kernel.New(
		kernel.WithObservability(obs),
		kernel.WithReceiptStore(receipts),
		kernel.WithGuards(guards, guardSet),
	)

	audits := store.NewAuditStore()
	auditLog := audit.NewLogger()

	var limiter bridge.Limiter
	if profile.Bridge.UseRedisLimiter && cfg.RedisAddr != "" {
		limiter = bridge.NewRedisLimiter(cfg.RedisAddr, "", 0,
			profile.Bridge.RatePerSecond, profile.Bridge.Burst)
	} else if profile.Bridge.RatePerSecond > 0 {
		limiter = bridge.NewLocalLimiter(profile.Bridge.RatePerSecond, profile.Bridge.Burst)
	}

	br, err := bridge.NewKernelBridge(
		bridge.NewSecurityContext(),
		crypto.NewEd25519Verifier(),
		audits,
		bridge.Options{
			Limiter:          limiter,
			MinClientVersion: profile.Bridge.MinClientVersion,
			Logger:           auditLog,
		},
	)
	if err != nil {
		logger.Error("bridge init failed", "error", err)
		os.Exit(1)
	}

	autonomyMode := contracts.AutonomyMode(profile.Autonomy.Mode)
	executionLimit := profile.Autonomy.ExecutionLimit
	if executionLimit == 0 {
		executionLimit = cfg.ExecutionLimit
	}

	br.OnGraph(func(e bridge.GraphEvent) {
		// Admitted graphs drive one governance tick each. Real effector
		// wiring stays behind the symbolic executor.
		out := k.Run(ctx, contracts.KernelInput{
			Signals: contracts.Signals{
				Presence:         contracts.PresenceResponding,
				AudioEnergyLevel: 0.8,
			},
			ThoughtsCount:  len(e.Graph.Nodes),
			AvgConfidence:  0.7,
			Action:         contracts.ActionSpeak,
			AutonomyMode:   autonomyMode,
			ExecutionCount: 0,
			ExecutionLimit: executionLimit,
		})
		logger.Info("graph governed",
			"graph_id", e.Graph.ID,
			"client_id", e.ClientID,
			"decision", out.Decision,
			"execution_result", out.ExecutionResult,
		)
	})

	// One canonical tick at startup: a responding user at high energy
	// passes every policy gate and still ends blocked at the symbolic
	// executor. If this ever reports anything else, the deployment is
	// misconfigured.
	startupTick := k.Run(ctx, contracts.KernelInput{
		Signals: contracts.Signals{
			Presence:          contracts.PresenceResponding,
			AudioEnergyLevel:  0.8,
			SilenceDurationMs: 100,
			SpikeFrequencyHz:  1,
		},
		ThoughtsCount:  3,
		AvgConfidence:  0.7,
		Action:         contracts.ActionSpeak,
		AutonomyMode:   contracts.AutonomyBounded,
		ExecutionCount: 0,
		ExecutionLimit: 5,
	})
	logger.Info("startup check",
		"intent", startupTick.Intent,
		"decision", startupTick.Decision,
		"eligibility", startupTick.Eligibility,
		"execution_result", startupTick.ExecutionResult,
	)
	if startupTick.ExecutionResult != contracts.ResultBlocked {
		logger.Error("startup check did not end blocked, refusing to start",
			"execution_result", startupTick.ExecutionResult)
		os.Exit(1)
	}

	srv := newServer(cfg, k, br, receipts, autonomyMode, executionLimit, logger)
	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func logLevel(name string) slog.Level {
	switch name {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envName(shadow bool) string {
	if shadow {
		return "shadow"
	}
	return "production"
}

func openReceiptStore(cfg *config.Config, logger *slog.Logger) (store.ReceiptStore, func(), error) {
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		s, err := store.OpenSQLiteReceiptStore(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("receipt store: sqlite", "path", path)
		return s, func() { _ = s.Close() }, nil
	}
	if os.Getenv("USE_POSTGRES") == "true" {
		s, err := store.OpenPostgresReceiptStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureSchema(context.Background()); err != nil {
			return nil, nil, err
		}
		logger.Info("receipt store: postgres")
		return s, func() { _ = s.Close() }, nil
	}
	logger.Info("receipt store: memory")
	return store.NewMemoryReceiptStore(), func() {}, nil
}
