package main

import (
	"context"
	"log"

	"MediCheck/config"
	"MediCheck/logger"
	"MediCheck/migrations"
	"MediCheck/routes"
	"MediCheck/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	startServer = server.Start
	loadConfig  = config.Load
	buildApp    = newApp
	isTest      = false
)

func main() {
	if err := run(); err != nil {
		log.Fatalln("Server stopped:", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logr := logger.New(cfg.Log.Level, cfg.Log.Format)

	a, err := buildApp(context.Background(), cfg, logr)
	if err != nil {
		return err
	}
	return startServer(serverOptions(a))
}

func serverOptions(a *app) server.Options {
	defaultopts := server.GetDefaultOptions()

	return server.Options{
		WebServerPort:   a.cfg.Port,
		ShutdownTimeout: defaultopts.ShutdownTimeout,
		Logger:          a.log,

		JobsEnabled: !isTest,
		JobsHandler: func() {
			if isTest {
				return
			}
			a.scheduler.Start()
		},

		MigrationEnabled: a.cfg.Migrate.OnStart && !isTest,
		MigrationHandler: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Mongo.Timeout)
			defer cancel()
			return migrations.Run(ctx, a.store.Collection(), a.log)
		},

		WebServerPreHandler: func(r *gin.Engine) {
			r.Use(logger.Middleware(a.log))
			r.Use(cors.New(cors.Config{
				AllowOrigins: a.cfg.Cors.Origins(),
				AllowMethods: []string{"GET", "POST", "OPTIONS"},
				AllowHeaders: []string{"Origin", "Content-Type", "X-Admin-Token"},
			}))
			routes.Routes(r, routes.Dependencies{
				Medications: a.medications,
				Reminders:   a.reminders,
				Database:    a.store,
				Slots:       a.slots,
				AdminToken:  a.cfg.Admin.Token,
			})
		},

		ShutdownHandler: func(ctx context.Context) {
			if a.scheduler != nil {
				if err := a.scheduler.Stop(ctx); err != nil {
					a.log.WithError(err).Warn("Reminder sweep still running at shutdown")
				}
			}
			a.close(ctx)
		},
	}
}
