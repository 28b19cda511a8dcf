package main

import (
	"encoding/json"
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

	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/monitoring"
	"github.com/sells-group/florent/internal/pipeline"
)

var (
	servePort    int
	serveOffline bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST server for analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initAnalysis(ctx, serveOffline)
		if err != nil {
			return err
		}
		collector := monitoring.NewCollector()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(requestLogger)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/analyses", analysisHandler(p, collector))

		r.Get("/v1/stats", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusOK, collector.Collect())
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// analysisRequest is the POST /v1/analyses body.
type analysisRequest struct {
	Firm    *model.Firm    `json:"firm"`
	Project *model.Project `json:"project"`
	Budget  int            `json:"budget"`
}

// analysisHandler runs an analysis synchronously. Budget exhaustion still
// returns 200; the traversal_status field tells the caller what happened.
func analysisHandler(p *pipeline.Pipeline, collector *monitoring.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body analysisRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Firm == nil || body.Project == nil {
			respondError(w, http.StatusBadRequest, "firm and project are required")
			return
		}
		if err := body.Firm.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := body.Project.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		collector.RecordStart()
		res, err := p.Run(req.Context(), body.Firm, body.Project, body.Budget)
		if err != nil {
			collector.RecordFailure()
			zap.L().Error("analysis failed",
				zap.String("project_id", body.Project.ID),
				zap.Error(err),
			)
			respondError(w, http.StatusInternalServerError, "analysis failed")
			return
		}

		collector.RecordResult(res.Output, res.Usage)
		respondJSON(w, http.StatusOK, res.Output)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		zap.L().Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(req.Context())),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "use the deterministic evaluator, no API calls")
	rootCmd.AddCommand(serveCmd)
}
