package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gopkg.d7z.net/sw-cachelist/pkg"
	"gopkg.d7z.net/sw-cachelist/pkg/config"
)

var (
	configPath = "cachelist.yaml"
	debug      = false
)

func init() {
	flag.StringVar(&configPath, "conf", configPath, "config file path")
	flag.BoolVar(&debug, "debug", debug, "debug mode")
	flag.Parse()
}

func main() {
	call := logInject()
	defer call()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("fail to load config file: %v", err)
	}
	generator, err := pkg.NewGenerator(cfg)
	if err != nil {
		log.Fatalln(err)
	}
	server, err := pkg.NewServer(generator, cfg.Server.Route, cfg.Server.Cache)
	if err != nil {
		log.Fatalln(err)
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	svc := http.Server{Addr: cfg.Server.Bind, Handler: server}
	go func() {
		<-ctx.Done()
		zap.L().Debug("shutdown gracefully")
		_ = svc.Close()
	}()
	zap.L().Info("preview server started",
		zap.String("bind", cfg.Server.Bind),
		zap.String("route", cfg.Server.Route),
		zap.String("site", cfg.Site))
	if err = svc.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Fatal("failed to start server", zap.Error(err))
	}
}

func logInject() func() {
	atom := zap.NewAtomicLevel()
	if debug {
		atom.SetLevel(zap.DebugLevel)
	} else {
		atom.SetLevel(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = atom

	logger, _ := cfg.Build()
	zap.ReplaceGlobals(logger)
	zap.L().Debug("debug enabled")
	return func() {
		if err := logger.Sync(); err != nil {
			fmt.Println(err)
		}
	}
}
