package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/pivolan/analysis_server/domain/models"
)

const serviceVersion = "1.0.0"

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

type Dependencies struct {
	Analyzer *Analyzer
	Storage  *Storage
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxUploadBytes  int64
	Dependencies    Dependencies
}

type analysisHandler struct {
	analyzer       *Analyzer
	storage        *Storage
	maxUploadBytes int64
}

func ConfigureRouter(config Config) *chi.Mux {
	h := &analysisHandler{
		analyzer:       config.Dependencies.Analyzer,
		storage:        config.Dependencies.Storage,
		maxUploadBytes: config.MaxUploadBytes,
	}
	logger := config.Dependencies.Logger

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	router.Get("/", banner)
	router.Get("/health", health)
	router.Route("/api/analysis", func(r chi.Router) {
		r.Post("/upload", h.upload)
		r.Get("/chart/{fileID}/{chartType}", h.chart)
	})
	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger
	return &WebAPI{
		router: router,
		logger: &logger,
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func banner(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"message": "Data Analysis API Server",
		"version": serviceVersion,
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "healthy",
		"service": "analysis-server",
	})
}

func (h *analysisHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			renderError(w, r, errUploadTooBig)
			return
		}
		renderError(w, r, errMissingFile)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		renderError(w, r, err)
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), filepath.Base(header.Filename), raw)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

func (h *analysisHandler) chart(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseChartKind(chi.URLParam(r, "chartType"))
	if !ok {
		renderError(w, r, errUnknownChart)
		return
	}
	ext, contentType := ".png", "image/png"
	if r.URL.Query().Get("format") == "html" {
		ext, contentType = ".html", "text/html; charset=utf-8"
	}

	path, err := h.storage.ChartFile(chi.URLParam(r, "fileID"), kind, ext)
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("chart lookup failed")
		renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}
