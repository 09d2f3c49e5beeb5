package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"motoyard/config"
	"motoyard/internal/api"
	"motoyard/internal/auth"
	"motoyard/internal/db"
	"motoyard/internal/fleet"
	"motoyard/internal/health"
	"motoyard/internal/identity"
	"motoyard/internal/logs"
	"motoyard/internal/middleware"
	"motoyard/internal/models"
	"motoyard/internal/predict"
	"motoyard/internal/repo"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Logs */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (optional; empty driver means in-memory stores) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.Yard{},
			&models.Vehicle{},
			&models.User{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 3) Stores */
	var (
		vehicles fleet.VehicleStore
		yards    fleet.YardStore
		users    identity.UserStore
	)
	if a.db != nil {
		vehicles = repo.NewVehicleStore(a.db)
		yards = repo.NewYardStore(a.db)
		users = repo.NewUserStore(a.db)
	} else {
		memYards := repo.NewMemYardStore()
		vehicles = repo.NewMemVehicleStore(memYards)
		yards = memYards
		users = repo.NewMemUserStore()
	}

	/* 4) Services */
	jwtCfg := auth.Config{
		Secret:   a.cfg.JWT.Secret,
		Issuer:   a.cfg.JWT.Issuer,
		Audience: a.cfg.JWT.Audience,
		TTL:      time.Duration(a.cfg.JWT.ExpirationMinutes) * time.Minute,
	}
	fleetSvc := fleet.NewService(vehicles, yards)
	identitySvc := identity.NewService(users, jwtCfg)

	// The predictor is optional: a missing artifact disables the one
	// feature and is reported, it never takes the whole service down.
	var predictor *predict.Predictor
	if model, err := predict.LoadModel(a.cfg.ML.ModelPath); err != nil {
		logs.Logger.Errorf("stay-duration predictor disabled: %v", err)
	} else {
		predictor = predict.NewPredictor(model, yards, vehicles)
		logs.Logger.Infof("stay-duration model loaded from %s", a.cfg.ML.ModelPath)
	}

	/* 5) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 6) Health */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // /healthz only
	}

	/* 7) REST surface */
	api.RegisterRoutes(a.Router, api.NewHandler(fleetSvc, identitySvc, predictor), jwtCfg)

	/* (optional) dump known routes to the log at startup */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Hard timeouts matter in production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
