package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/SwiftFleet/SwiftFleet/internal/booking"
	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/SwiftFleet/SwiftFleet/internal/common/db"
	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
	"github.com/SwiftFleet/SwiftFleet/internal/user"
)

var configPath = flag.String("config", "configs/rental-service.json", "配置文件路径")

// 初始车队与网点数据。重复执行按 name/plate 去重，可安全重跑。
var seedLocations = []location.Location{
	{Name: "Main Office", Address: "123 Main Street", City: "New York", IsActive: true},
	{Name: "Airport Terminal", Address: "JFK International Airport, Terminal 4", City: "New York", IsActive: true},
	{Name: "Downtown Branch", Address: "456 Broadway", City: "New York", IsActive: true},
	{Name: "Uptown Branch", Address: "789 Madison Avenue", City: "New York", IsActive: true},
}

var seedCars = []car.Car{
	{Name: "Mercedes-Benz AMG GT", Model: "2024", PlateNumber: "LUX-0101", PricePerDay: 17500},
	{Name: "Range Rover Sport HSE", Model: "2024", PlateNumber: "LUX-0102", PricePerDay: 16000},
	{Name: "Lamborghini Huracán EVO", Model: "2023", PlateNumber: "LUX-0103", PricePerDay: 35000},
	{Name: "Bentley Continental GT", Model: "2024", PlateNumber: "LUX-0104", PricePerDay: 27500},
	{Name: "Ferrari 488 GTB", Model: "2023", PlateNumber: "LUX-0105", PricePerDay: 32500},
	{Name: "Audi R8 Spyder", Model: "2024", PlateNumber: "LUX-0106", PricePerDay: 22000},
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

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

	ctx := context.Background()
	locationRepo := location.NewRepo(gdb)
	carRepo := car.NewRepo(gdb)

	existing, err := locationRepo.List(ctx, false)
	if err != nil {
		log.Fatalf("failed to list locations: %v", err)
	}
	byName := map[string]bool{}
	for _, l := range existing {
		byName[l.Name] = true
	}
	created := 0
	for _, l := range seedLocations {
		if byName[l.Name] {
			continue
		}
		l.ID = uuid.NewString()
		if err := locationRepo.Create(ctx, &l); err != nil {
			log.Fatalf("failed to seed location %s: %v", l.Name, err)
		}
		created++
	}
	log.Infof("locations: %d created, %d already present", created, len(seedLocations)-created)

	created = 0
	for _, c := range seedCars {
		if _, err := carRepo.FindByPlate(ctx, c.PlateNumber); err == nil {
			continue
		}
		c.ID = uuid.NewString()
		c.Availability = true
		if err := carRepo.Create(ctx, &c); err != nil {
			log.Fatalf("failed to seed car %s: %v", c.Name, err)
		}
		created++
	}
	log.Infof("cars: %d created, %d already present", created, len(seedCars)-created)
}
