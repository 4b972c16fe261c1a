package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gopkg.d7z.net/sw-cachelist/pkg"
	"gopkg.d7z.net/sw-cachelist/pkg/config"
)

var (
	configPath = "cachelist.yaml"
	debug      = false
	stdout     = false
)

func init() {
	flag.StringVar(&configPath, "conf", configPath, "config file path")
	flag.BoolVar(&debug, "debug", debug, "debug mode")
	flag.BoolVar(&stdout, "stdout", stdout, "print to stdout instead of writing the output file")
	flag.Parse()
}

func main() {
	call := logInject()
	defer call()

	cfg := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			zap.L().Fatal("fail to load config file", zap.String("path", configPath), zap.Error(err))
		}
	} else {
		zap.L().Debug("config file not found, using defaults", zap.String("path", configPath))
	}
	generator, err := pkg.NewGenerator(cfg)
	if err != nil {
		zap.L().Fatal("failed to init generator", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if stdout {
		err = generator.Generate(ctx, os.Stdout)
	} else {
		_, err = generator.WriteFile(ctx)
	}
	if err != nil {
		zap.L().Fatal("failed to generate cache list", zap.Error(err))
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
	return func() {
		_ = logger.Sync()
	}
}
