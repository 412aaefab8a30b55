package main

import (
	"context"
	"log"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/server"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(false); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	svcs, err := server.BuildServices(cfg)
	if err != nil {
		zap.L().Fatal("failed to build services", zap.Error(err))
	}

	// Settlement consumer runs next to the HTTP server. If the broker
	// connection drops the process exits and supervision restarts it.
	go func() {
		if err := svcs.LinkWorker.Run(context.Background()); err != nil {
			zap.L().Fatal("payment link worker stopped", zap.Error(err))
		}
	}()

	app := iris.New()
	server.RegisterRoutes(app, cfg, svcs)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr)); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
