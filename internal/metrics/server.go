package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents a Prometheus metrics server
type Server struct {
	server   *http.Server
	registry *prometheus.Registry
	metrics  *Metrics
	addr     string
}

// ServerConfig represents configuration for the metrics server
type ServerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Address     string        `yaml:"address"`
	Port        int           `yaml:"port"`
	Path        string        `yaml:"path"`
	Timeout     time.Duration `yaml:"timeout"`
	EnablePprof bool          `yaml:"enable_pprof"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Enabled:     true,
		Address:     "0.0.0.0",
		Port:        9090,
		Path:        "/metrics",
		Timeout:     30 * time.Second,
		EnablePprof: false,
	}
}

// NewServer creates a new Prometheus metrics server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	addr := fmt.Sprintf("%s:%d", config.Address, config.Port)

	mux := http.NewServeMux()

	// Add metrics endpoint
	mux.Handle(config.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	// Add health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Add ready check endpoint
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Add pprof endpoints if enabled
	if config.EnablePprof {
		mux.HandleFunc("/debug/pprof/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.DefaultServeMux.ServeHTTP(w, r)
		}))
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
		IdleTimeout:  config.Timeout,
	}

	return &Server{
		server:   server,
		registry: metrics.GetRegistry(),
		metrics:  metrics,
		addr:     addr,
	}
}

// Start starts the metrics server
func (s *Server) Start(ctx context.Context) error {
	log.Printf("Starting Prometheus metrics server on %s", s.addr)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down Prometheus metrics server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down metrics server: %v", err)
		}
	}()

	return s.server.ListenAndServe()
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	return s.addr
}

// GetRegistry returns the Prometheus registry
func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}
