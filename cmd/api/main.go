package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-leaveflow/internal/app"
	"go-leaveflow/internal/audit"
	"go-leaveflow/internal/bootstrap"
	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/shared/apperror"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.ContextLogger(logger))
	r.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	if err := app.BuildApp(r); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		audit.NewStdoutLogger(),
	)
}
