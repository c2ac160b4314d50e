package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/rental-scheduler/internal/db"
	"github.com/BruksfildServices01/rental-scheduler/internal/routes"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  "rental-scheduler",
		Usage: "reservas de veículos",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "sobe a API HTTP",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "aplica as migrações do banco",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "reverte as migrações SQL"},
				},
				Action: migrateAction,
			},
		},
		// sem subcomando, sobe a API
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("rental-scheduler stopped")
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	return cfg, nil
}

func migrateAction(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}

	if c.Bool("down") {
		return dbpkg.MigrateDown(db)
	}

	if err := dbpkg.AutoMigrate(db); err != nil {
		return err
	}
	return dbpkg.MigrateUp(db)
}

func serve(_ *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.AutoMigrate(db); err != nil {
		return err
	}
	if err := dbpkg.MigrateUp(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rt, err := routes.RegisterRoutes(r, db, cfg)
	if err != nil {
		return err
	}

	// o sinal não derruba os workers; Shutdown drena a fila antes
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	rt.Start(workCtx)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	log.WithField("addr", cfg.Addr()).Info("server running")

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	return rt.Shutdown(shutdownCtx)
}
