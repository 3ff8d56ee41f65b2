package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/benjamonnguyen/focusflow"
	"github.com/benjamonnguyen/focusflow/sqlite"
	"github.com/benjamonnguyen/focusflow/timer"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	// logger
	log.SetReportCaller(true)
	topCtx, topCtxC := context.WithCancel(context.Background())

	// config
	cfg, err := focusflow.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogLevel != "" {
		lvl, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatal("invalid log level", "level", cfg.LogLevel)
		}
		log.SetLevel(lvl)
	}

	// db
	log.Info("opening db", "path", cfg.DatabaseURL)
	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed database open", "err", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("failed database ping", "err", err)
	}
	defer db.Close() //nolint
	if err := runMigrations(db); err != nil {
		log.Fatal("failed migration", "err", err)
	}

	tx, dbGetter := txStdLib.NewTransactor(
		db,
		txStdLib.NestedTransactionsSavepoints,
	)

	// repos
	sessionRepo := sqlite.NewTimerSessionRepo(dbGetter, *log.Default())
	goalRepo := sqlite.NewGoalRepo(dbGetter, *log.Default())
	categoryRepo := sqlite.NewCategoryRepo(dbGetter, *log.Default())
	userRepo := sqlite.NewUserRepo(dbGetter, *log.Default())
	notificationRepo := sqlite.NewNotificationRepo(dbGetter, *log.Default())
	statsRepo := sqlite.NewStatsRepo(dbGetter, *log.Default())

	// state machine
	machine := timer.NewMachine(sessionRepo, goalRepo, notificationRepo, tx, timer.SystemClock(), *log.Default())

	// http server
	s := newServer(serverDeps{
		cfg:           cfg,
		machine:       machine,
		sessions:      sessionRepo,
		goals:         goalRepo,
		categories:    categoryRepo,
		users:         userRepo,
		notifications: notificationRepo,
		stats:         statsRepo,
		auth:          newAuthService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL),
		l:             *log.Default(),
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// expire sweep
	sw := newSweeper(machine, cfg.SweepInterval)
	sw.Start(topCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()
	log.Info("focusflow API running. Press CTRL-C to exit.", "addr", cfg.HTTPAddr)

	// graceful shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	log.Info("terminating focusflow")
	topCtxC()
	shutdownTimeout, shutdownTimeoutC := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownTimeoutC()
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		log.Error("failed to shut down gracefully", "err", err)
	}
	sw.Wait()
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
