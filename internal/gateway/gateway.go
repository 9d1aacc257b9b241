// Package gateway wires the adapter, logger, metrics, and engine into a
// single running process, grounded on the teacher's cmd/velocimex/main.go
// composition root — but without the dashboard/WebSocket forwarding that
// file did, since the OMS core has no UI surface.
package gateway

import (
	"context"
	"fmt"

	"velocimex/internal/adapter"
	"velocimex/internal/config"
	"velocimex/internal/logger"
	"velocimex/internal/metrics"
	"velocimex/internal/oms/engine"
)

// Gateway owns the full running stack: the engine and its adapter, the
// async logger, and the Prometheus metrics server.
type Gateway struct {
	Engine        *engine.Engine
	Logger        *logger.Logger
	MetricsServer *metrics.Server

	cfg *config.Config
}

// New constructs every component from cfg, wiring an already-built Adapter
// in (the caller picks the concrete venue implementation; gateway stays
// adapter-agnostic).
func New(cfg *config.Config, ad adapter.Adapter) (*Gateway, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("gateway: logger: %w", err)
	}

	marginRequirement, err := parseDecimalOrDefault(cfg.Engine.MarginRequirement, "0.1")
	if err != nil {
		return nil, fmt.Errorf("gateway: engine.marginRequirement: %w", err)
	}

	eng := engine.New(ad, marginRequirement, lg)
	eng.SetTickInterval(cfg.Engine.TickInterval)

	if cfg.Engine.InitialBalance != "" {
		balance, err := parseDecimalOrDefault(cfg.Engine.InitialBalance, "0")
		if err != nil {
			return nil, fmt.Errorf("gateway: engine.initialBalance: %w", err)
		}
		eng.SeedBalance(balance)
	}

	m := metrics.New()
	serverCfg := metrics.DefaultServerConfig()
	if cfg.Metrics.Port != "" {
		serverCfg.Port = atoiOrDefault(cfg.Metrics.Port, serverCfg.Port)
	}
	if cfg.Metrics.Path != "" {
		serverCfg.Path = cfg.Metrics.Path
	}
	serverCfg.Enabled = cfg.Metrics.Enabled
	metricsServer := metrics.NewServer(serverCfg, m)

	return &Gateway{
		Engine:        eng,
		Logger:        lg,
		MetricsServer: metricsServer,
		cfg:           cfg,
	}, nil
}

// Start brings up the logger, the engine (which connects the adapter), and,
// if enabled, the metrics HTTP server. It does not subscribe to
// cfg.Venue.Symbols; the caller does that on the adapter after Start.
func (g *Gateway) Start(ctx context.Context) error {
	g.Logger.Start()

	if err := g.Engine.Start(); err != nil {
		return fmt.Errorf("gateway: engine start: %w", err)
	}

	if g.cfg.Metrics.Enabled {
		go func() {
			if err := g.MetricsServer.Start(ctx); err != nil {
				g.Logger.LogDiagnostic(fmt.Sprintf("metrics server stopped: %v", err))
			}
		}()
	}

	return nil
}

// Stop tears everything down in reverse order, best-effort.
func (g *Gateway) Stop() error {
	var firstErr error
	if g.cfg.Metrics.Enabled {
		if err := g.MetricsServer.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := g.Engine.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	g.Logger.Stop()
	return firstErr
}
