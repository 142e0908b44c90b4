package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/pipeline"
	"github.com/lakeshore-media/newsdesk/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		cls, err := newClassifier()
		if err != nil {
			return eris.Wrap(err, "init classifier")
		}

		env := &serverEnv{
			base: ctx,
			pipe: pipeline.New(cfg, cls),
			st:   st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// serverEnv holds what the handlers need. base outlives individual
// requests so accepted analysis work survives client disconnects.
type serverEnv struct {
	base context.Context
	pipe *pipeline.Pipeline
	st   store.Store
}

func buildRouter(env *serverEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", env.handleAnalyze)
		r.Get("/runs", env.handleListRuns)
		r.Get("/runs/{id}", env.handleGetRun)
		r.Get("/runs/{id}/articles", env.handleListArticles)
		r.Get("/sources", env.handleListSources)
	})

	return r
}

type analyzeRequest struct {
	Label      string            `json:"label"`
	Candidates []model.Candidate `json:"candidates"`
}

// handleAnalyze accepts a candidate batch, registers a run, and analyzes
// it in the background. The response carries the run ID to poll.
func (env *serverEnv) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates are required")
		return
	}

	run, err := env.st.CreateRun(r.Context(), req.Label)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	go func() {
		ctx := env.base
		if err := env.st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
			zap.L().Error("mark run running", zap.String("run_id", run.ID), zap.Error(err))
			return
		}

		result, err := env.pipe.Run(ctx, req.Candidates)
		if err != nil {
			zap.L().Error("analysis run failed", zap.String("run_id", run.ID), zap.Error(err))
			if err := env.st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); err != nil {
				zap.L().Error("mark run failed", zap.String("run_id", run.ID), zap.Error(err))
			}
			return
		}

		if err := env.st.SaveRunResult(ctx, run.ID, result); err != nil {
			zap.L().Error("save run result", zap.String("run_id", run.ID), zap.Error(err))
			return
		}
		zap.L().Info("analysis run complete",
			zap.String("run_id", run.ID),
			zap.Int("input", result.Stats.Input),
			zap.Int("final", result.Stats.Final),
		)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": run.ID,
		"status": string(run.Status),
	})
}

func (env *serverEnv) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	runs, err := env.st.ListRuns(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (env *serverEnv) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := env.st.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (env *serverEnv) handleListArticles(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	category := model.Category(r.URL.Query().Get("category"))

	// Distinguish a missing run from a run with no articles.
	if _, err := env.st.GetRun(r.Context(), runID); err != nil {
		writeStoreError(w, err)
		return
	}

	articles, err := env.st.ListArticles(r.Context(), runID, category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

func (env *serverEnv) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := env.st.ListSources(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not found") {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	zap.L().Error("store error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
