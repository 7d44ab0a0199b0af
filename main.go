package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/schoolhub/schoolhub/internal/pkg/config"
	"github.com/schoolhub/schoolhub/internal/pkg/logger"
	"github.com/schoolhub/schoolhub/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	zapLogger, err := logger.Init(zapcore.InfoLevel, zap.String("service", "schoolhub"))
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := server.InitObservability("schoolhub", ":"+cfg.MetricsPort, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zapLogger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, zapLogger)
	if err != nil {
		return err
	}
	defer srv.Close()

	router := server.SetupRouter(srv.GetDBPool(), cfg, zapLogger)
	srv.SetRouter(router)

	// pprof stays off the public port.
	server.StartPprofServer(":" + cfg.PprofPort)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, zapLogger, done)

	zapLogger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		zapLogger.Error("Server error", zap.Error(err))
	}

	<-done
	zapLogger.Info("Graceful shutdown complete")

	return nil
}
