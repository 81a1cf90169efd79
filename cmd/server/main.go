package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"resumerag/internal/api"
	"resumerag/internal/app"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the yaml configuration file")
	flag.Parse()

	// 1. Wire the application
	application, err := app.New(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()
	appLogger := application.Log
	appLogger.Info("Starting resume RAG server...")

	// 2. The eval surface is optional; without a LangSmith key the endpoint
	// reports itself unconfigured.
	var evalRunner api.EvalRunner
	if runner, err := application.EvalRunner(); err != nil {
		appLogger.Warn(fmt.Sprintf("Evaluation endpoint disabled: %v", err))
	} else {
		evalRunner = runner
	}

	// 3. Build the HTTP surface
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	handler := api.NewAPI(application.Service, application.Agent, evalRunner, application.Registry, appLogger)
	api.RegisterRoutes(router, handler)

	// 4. Serve until interrupted
	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", application.Config.Server.Addr))
		if err := router.Run(application.Config.Server.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
}
