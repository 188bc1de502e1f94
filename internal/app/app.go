package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trafficflow/internal/config"
	"trafficflow/internal/logger"
	"trafficflow/internal/repository/sqlite"
	"trafficflow/internal/route"
	"trafficflow/internal/service"
	"trafficflow/internal/service/source"
	"trafficflow/internal/service/storage"
	"trafficflow/internal/service/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	hubService *websocket.HubService
	manager    *service.Manager
}

func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	candidates, err := BuildCandidates(cfg.Camera.Candidates)
	if err != nil {
		log.Close()
		return nil, err
	}

	// rejestr uploadów żyje tylko w pamięci procesu
	db, err := sqlite.New(sqlite.MemoryDSN)
	if err != nil {
		log.Close()
		return nil, err
	}

	src := source.NewManager(source.GocvOpener{}, source.Options{
		Width:         cfg.Camera.Width,
		Height:        cfg.Camera.Height,
		ProbeTimeout:  cfg.Camera.ProbeTimeout,
		ReleaseSettle: cfg.ReleaseSettle,
		Candidates:    candidates,
	}, log)
	store := storage.NewUploadStore(cfg.UploadDirectory, sqlite.NewUploadRepository(db), log)
	hub := websocket.NewHubService(log)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		hubService: hub,
		manager:    service.NewManager(src, store, hub, log),
	}, nil
}

// BuildCandidates converts configured (backend, index) pairs into probe
// candidates.
func BuildCandidates(configured []config.CameraCandidate) ([]source.Candidate, error) {
	candidates := make([]source.Candidate, 0, len(configured))
	for _, c := range configured {
		candidate, err := source.NewCandidate(c.Backend, c.Index)
		if err != nil {
			return nil, fmt.Errorf("invalid camera candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (a *App) Run() error {
	defer a.close()

	// Start background services
	go a.hubService.Run()

	// Setup routes
	router := route.SetupRoutes(a.manager, a.config, a.logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("🚦 Traffic Flow Monitor")
	a.logger.Info("📍 URL: http://localhost:%d", a.config.Port)
	a.logger.Info("📁 Uploads: %s", a.config.UploadDirectory)
	a.logger.Info("📹 Camera candidates: %d", len(a.config.Camera.Candidates))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		a.logger.Info("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func (a *App) close() {
	a.hubService.Stop()
	a.manager.Shutdown()
	if n := a.manager.GetUploadStore().Purge(); n > 0 {
		a.logger.Info("Removed %d uploaded file(s)", n)
	}
	a.db.Close()
	a.logger.Close()
}
