package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"

	"github.com/SwiftFleet/SwiftFleet/internal/booking"
	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/SwiftFleet/SwiftFleet/internal/common/db"
	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/common/server"
	"github.com/SwiftFleet/SwiftFleet/internal/common/tracing"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
	"github.com/SwiftFleet/SwiftFleet/internal/user"
)

var (
	configPath  = flag.String("config", "configs/rental-service.json", "配置文件路径")
	consulKVKey = flag.String("consul-kv", "", "可选：Consul KV 里的配置覆盖 key")
)

func main() {
	flag.Parse()

	// .env 不存在也无妨，本地开发用
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if *consulKVKey != "" {
		if err := config.OverrideFromConsulKV(cfg, *consulKVKey); err != nil {
			panic(fmt.Sprintf("failed to load config overrides from Consul KV: %v", err))
		}
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
	gdb, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(gdb,
		&user.User{},
		&car.Car{},
		&location.Location{},
		&booking.Booking{},
		&booking.InvoiceCounter{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	carHandler := car.NewHandler(car.NewRepo(gdb), log)
	locationHandler := location.NewHandler(location.NewRepo(gdb), log)
	userHandler := user.NewHandler(user.NewRepo(gdb), log)
	bookingHandler := booking.NewHandler(booking.NewService(gdb, log), log)

	// 启动统一的 HTTP 服务模板
	if err := server.RunHTTPServer(cfg, log, func(app *iris.Application) error {
		api := app.Party("/api", server.JWTAuth(cfg.Auth, log))
		admin := api.Party("/admin", server.StaffOnly(cfg.Auth))

		carHandler.RegisterRoutes(api, admin)
		locationHandler.RegisterRoutes(api, admin)
		userHandler.RegisterRoutes(api, admin)
		bookingHandler.RegisterRoutes(api, admin)
		return nil
	}); err != nil {
		log.Fatalf("rental-service exited with error: %v", err)
	}
}
