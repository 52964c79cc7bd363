package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/SwiftFleet/SwiftFleet/internal/common/discovery"
	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

const healthPath = "/healthz"

// RegisterFunc 用于注册业务路由（各 handler 的 RegisterRoutes 等）。
type RegisterFunc func(app *iris.Application) error

type RunHTTPOptions struct {
	ShutdownTimeout time.Duration
}

func defaultRunHTTPOptions() RunHTTPOptions {
	return RunHTTPOptions{
		ShutdownTimeout: 5 * time.Second,
	}
}

// RunHTTPServer 统一的 HTTP 服务启动模板：
// - 初始化 iris app（含恢复/追踪/访问日志/限流中间件与 validator）
// - 注册健康检查路由
// - 注册业务路由
// - 注册到 Consul（HTTP check）
// - 优雅退出
func RunHTTPServer(cfg *config.Config, log logger.Logger, register RegisterFunc, opts ...func(*RunHTTPOptions)) error {
	if cfg == nil {
		return fmt.Errorf("cfg is nil")
	}
	if log == nil {
		return fmt.Errorf("log is nil")
	}

	o := defaultRunHTTPOptions()
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}

	// 初始化 Consul 客户端（失败不阻塞服务启动）
	consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
	if err != nil {
		log.Warnf("failed to connect to Consul: %v", err)
		consulClient = nil
	}

	app := iris.New()
	app.Validator = validator.New()

	// 统一中间件链（按顺序执行）
	app.UseRouter(Recovery(log)) // 异常恢复，避免服务崩溃
	app.Use(
		Tracing(cfg.Server.Name), // 链路追踪
		AccessLog(log),           // 访问日志
		RateLimit(cfg.RateLimit, log),
	)

	// 健康检查（供 Consul 的 HTTP check 探测）
	app.Get(healthPath, func(ctx iris.Context) {
		_ = ctx.JSON(iris.Map{"status": "ok", "service": cfg.Server.Name})
	})

	if register != nil {
		if err := register(app); err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}
	}

	// 注册到 Consul（成功才 defer 注销）
	if consulClient != nil {
		serviceID := fmt.Sprintf("%s-%s", cfg.Server.Name, uuid.New().String())
		registry := discovery.NewServiceRegistry(
			consulClient,
			serviceID,
			cfg.Server.Name,
			cfg.Server.Host,
			cfg.Server.HTTPPort,
			healthPath,
			[]string{"http"},
		)
		if err := registry.Register(); err != nil {
			log.Warnf("failed to register service to Consul: %v", err)
		} else {
			log.Infof("Service registered to Consul: %s", serviceID)
			defer func() {
				if err := registry.Deregister(); err != nil {
					log.Warnf("failed to deregister service from Consul: %v", err)
				}
			}()
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
	log.Infof("%s starting on %s", cfg.Server.Name, addr)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Listen(addr,
			iris.WithoutInterruptHandler,
			iris.WithoutServerError(iris.ErrServerClosed),
		)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("received signal %v, shutting down...", sig)
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http serve failed: %w", err)
		}
		return nil
	}

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), o.ShutdownTimeout)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Warnf("http shutdown error: %v", err)
		return err
	}
	log.Info("http server stopped gracefully")
	return nil
}

// WithShutdownTimeout 修改优雅退出等待时间。
func WithShutdownTimeout(d time.Duration) func(*RunHTTPOptions) {
	return func(o *RunHTTPOptions) {
		if d > 0 {
			o.ShutdownTimeout = d
		}
	}
}
