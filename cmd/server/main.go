package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edstudy/config"
	"edstudy/internal/database"
	"edstudy/internal/grpc"
	"edstudy/internal/logger"
	"edstudy/internal/route"
	"edstudy/internal/scoring"
	"edstudy/packages/email"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	healthInterval = 15 * time.Second
	sweepInterval  = time.Minute
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")
	cfg := config.Conf

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set")
	}
	gin.SetMode(cfg.Server.Mode)

	// 2. 初始化存储
	stores, err := database.InitStores(cfg, logger.Component(log, "database"))
	if err != nil {
		log.WithError(err).Fatal("store init failed")
	}
	defer stores.Close()

	// 3. 评分服务
	provider, err := scoring.NewProvider(cfg.Scoring, logger.Component(log, "scoring"))
	if err != nil {
		log.WithError(err).Fatal("scoring provider init failed")
	}
	log.WithField("provider", provider.Name()).Info("scoring provider ready")

	mailer := email.NewClient(&cfg.Smtp)
	if !mailer.Enabled() {
		log.Info("smtp not configured, booking confirmations disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. gRPC 健康检查
	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		grpcServer, err = grpc.NewServer(cfg.GRPC.Port, stores, logger.Component(log, "grpc"))
		if err != nil {
			log.WithError(err).Fatal("grpc init failed")
		}
		go grpcServer.Watch(ctx, healthInterval)
		go func() {
			log.WithField("addr", grpcServer.GetAddr()).Info("grpc server listening")
			if err := grpcServer.Start(); err != nil {
				log.WithError(err).Error("grpc server stopped")
			}
		}()
	}

	// 5. 设置路由
	deps := route.BuildDeps(cfg, stores, provider, mailer, time.Now, log)
	deps.Healthy = func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return stores.Ping(pingCtx)
	}
	r := route.SetupRouter(deps)
	go deps.Assessments.Watch(ctx, sweepInterval)

	// 6. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	shutdown(srv, grpcServer, log)
}

func shutdown(srv *http.Server, grpcServer *grpc.Server, log *logrus.Logger) {
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}

	if grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			grpcServer.Stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			log.Warn("grpc graceful stop timed out")
		}
	}
	log.Info("goodbye")
}
