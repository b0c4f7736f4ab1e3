package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/njchilds90/curvature"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	Addr    string
	Workers int
	Timeout time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the curvature tools over HTTP",
		Long: `Serve the curvature tools as an HTTP endpoint for agent frameworks.

  POST /tool     execute a tool call
  GET  /schema   tool schema for agent registration
  GET  /health   liveness check
  GET  /metrics  Prometheus metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runServe(ctx, newLogger(rootOpts, cmd.ErrOrStderr()), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "address to listen on")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "components evaluated concurrently per stage")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-request derivation limit")

	return cmd
}

func runServe(ctx context.Context, logger *slog.Logger, opts *ServeOptions) error {
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           NewHandler(opts, logger, prometheus.NewRegistry()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("curvature tool server listening", "addr", opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitCommandError, "serve", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("curvature tool server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	f := promauto.With(reg)
	return &serverMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "curvature",
			Subsystem: "tool",
			Name:      "requests_total",
			Help:      "Tool calls by tool and outcome",
		}, []string{"tool", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "curvature",
			Subsystem: "tool",
			Name:      "duration_seconds",
			Help:      "Tool call latency in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"tool"}),
	}
}

// NewHandler returns the tool server mux. Metrics are registered on reg
// and exposed at /metrics.
func NewHandler(opts *ServeOptions, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	metrics := newServerMetrics(reg)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in /tool", "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req curvature.ToolRequest
		if err := dec.Decode(&req); err != nil {
			metrics.requests.WithLabelValues("", "bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			metrics.requests.WithLabelValues(req.Tool, "bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		ctx := r.Context()
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		start := time.Now()
		resp := curvature.HandleToolCall(ctx, req,
			curvature.WithLogger(logger),
			curvature.WithWorkers(opts.Workers))
		metrics.duration.WithLabelValues(req.Tool).Observe(time.Since(start).Seconds())

		status := "ok"
		if resp.Error != "" {
			status = "error"
			logger.Debug("tool call failed", "tool", req.Tool, "error", resp.Error)
		}
		metrics.requests.WithLabelValues(req.Tool, status).Inc()
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("GET /schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, curvature.ToolSpec())
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
