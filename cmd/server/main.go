// Schichtplan 月度排班生成服务
// 主程序入口

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

	"github.com/paiban/schichtplan/internal/config"
	"github.com/paiban/schichtplan/internal/database"
	"github.com/paiban/schichtplan/internal/handler"
	"github.com/paiban/schichtplan/internal/metrics"
	"github.com/paiban/schichtplan/internal/repository"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/scheduler"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("服务异常退出")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	format := "console"
	if cfg.IsProduction() {
		format = "json"
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: format, Output: "stdout", TimeFormat: time.RFC3339})

	opts, err := cfg.Scheduler.GeneratorOptions()
	if err != nil {
		return fmt.Errorf("加载权重失败: %w", err)
	}
	generator := scheduler.NewGenerator(opts)

	handlerOpts := handler.Options{
		Defaults: handler.Defaults{
			Preferences:   cfg.Scheduler.PreferenceConfig(),
			FallbackHours: cfg.Scheduler.FallbackHours,
			Coverage:      cfg.Scheduler.Coverage(),
		},
		Timeout:     cfg.API.Timeout,
		MaxBodySize: cfg.API.MaxBodySize,
	}
	routerCfg := handler.RouterConfig{
		Build:     handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		APIKeys:   cfg.API.Keys,
		RateLimit: cfg.API.RateLimit,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	if cfg.API.CORS.Enabled {
		routerCfg.CORSOrigins = cfg.API.CORS.Origins
	}

	// 数据库可选：未配置密码时仅提供无状态接口
	if cfg.Database.Password != "" {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(context.Background()); err != nil {
			return err
		}
		handlerOpts.Store = repository.NewPlanRepository(db)
		routerCfg.DB = db
		go reportPool(db)
	} else {
		logger.Warn().Msg("未配置数据库，save 请求将被忽略")
	}

	h := handler.NewSchichtplanHandler(generator, handlerOpts)
	router := handler.NewRouter(h, routerCfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Dur("time_limit", cfg.Scheduler.TimeLimit).
			Int("workers", cfg.Scheduler.Workers).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务器启动失败: %w", err)
	case <-quit:
	}

	logger.Info().Msg("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.TimeLimit+5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}
	logger.Info().Msg("服务器已关闭")
	return nil
}

// reportPool 定期记录连接池状态
func reportPool(db *database.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s := db.Stats()
		metrics.SetDBConnections(s.InUse, s.Idle)
	}
}
