package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"medifinder/internal/api"
	"medifinder/internal/config"
	"medifinder/internal/consumer"
	"medifinder/internal/repository"
	"medifinder/internal/seed"
	"medifinder/internal/service"
	"medifinder/migrations"
)

func connectDB() (*sql.DB, string, error) {
	driver := config.Getenv("DB_DRIVER", "mysql")
	if driver == "sqlite" {
		db, err := sql.Open("sqlite", config.Getenv("DB_PATH", "medifinder.db"))
		return db, driver, err
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		config.Getenv("DB_USER", "root"),
		config.Getenv("DB_PASS", ""),
		config.Getenv("DB_HOST", "localhost"),
		config.Getenv("DB_PORT", "3306"),
		config.Getenv("DB_NAME", "medifinder"))

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", config.Getenv("DB_NAME", "medifinder"))
				return db, driver, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, driver, fmt.Errorf("failed to connect to DB after retries: %v", err)
}

func main() {
	db, driver, err := connectDB()
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(driver, 3, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if config.Getenv("SEED", "") == "true" {
		ctx := context.Background()
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.New(db, rng).Run(ctx); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		if err := seed.ProvisionPharmacyUsers(ctx, db, config.Getenv("SEED_PASSWORD", "pharmacy123")); err != nil {
			log.Fatalf("Failed to provision pharmacy users: %v", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: config.Getenv("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter("order-topic")

	orderRepo := repository.NewOrderRepository(db)
	stockRepo := repository.NewStockRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	insuranceRepo := repository.NewInsuranceRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	orderService := service.NewOrderService(*orderRepo, *stockRepo, kafkaWriter)
	stockService := service.NewStockService(*stockRepo, *medicineRepo, rdb)
	insuranceService := service.NewInsuranceService(*insuranceRepo)
	pharmacyService := service.NewPharmacyService(*pharmacyRepo, *insuranceRepo, *stockRepo)
	userService := service.NewUserService(*userRepo, rdb)
	notificationService := service.NewNotificationService(*notificationRepo)

	userHandler := api.NewUserHandler(*userService)
	pharmacyHandler := api.NewPharmacyHandler(*pharmacyService)
	orderHandler := api.NewOrderHandler(*orderService)
	dashboardHandler := api.NewDashboardHandler(*stockService, *orderService, *insuranceService, *notificationService, *userService)

	// Kafka consumer for order notifications
	notificationConsumer := consumer.NewConsumer(notificationService)
	if !config.IsTestEnv() {
		go notificationConsumer.StartKafkaConsumer()
	}

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	jwtConfig := echojwt.Config{
		SigningKey: config.JWTSecret(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.UserClaims)
		},
	}

	// Public routes
	e.POST("/api/users", userHandler.Register)
	e.POST("/api/login", userHandler.Login)
	e.GET("/api/pharmacies", pharmacyHandler.Search)
	e.GET("/api/pharmacies/list/all", pharmacyHandler.ListAll)
	e.GET("/api/pharmacies/:id", pharmacyHandler.GetByID)

	// Authenticated routes
	auth := e.Group("", echojwt.WithConfig(jwtConfig))
	auth.GET("/api/users/validate", userHandler.Validate)
	auth.POST("/api/orders", orderHandler.CreateOrder)
	auth.GET("/api/orders", orderHandler.GetMyOrders)

	// Pharmacy dashboard
	dashboard := e.Group("/api/dashboard", echojwt.WithConfig(jwtConfig), api.RequirePharmacy)
	dashboard.GET("/stock", dashboardHandler.GetStock)
	dashboard.POST("/stock", dashboardHandler.AddStock)
	dashboard.PUT("/stock/:medicineId", dashboardHandler.UpdateStock)
	dashboard.DELETE("/stock/:medicineId", dashboardHandler.DeleteStock)
	dashboard.GET("/medicines", dashboardHandler.GetMedicines)
	dashboard.POST("/medicines", dashboardHandler.CreateMedicine)
	dashboard.GET("/orders", dashboardHandler.GetOrders)
	dashboard.GET("/orders/:orderId", dashboardHandler.GetOrderDetails)
	dashboard.PUT("/orders/:orderId/status", dashboardHandler.UpdateOrderStatus)
	dashboard.PUT("/orders/:orderId/prescription", dashboardHandler.UpdatePrescriptionStatus)
	dashboard.GET("/insurance", dashboardHandler.GetInsurancePartners)
	dashboard.GET("/insurance/available", dashboardHandler.GetAvailableInsurance)
	dashboard.POST("/insurance", dashboardHandler.AddInsurancePartner)
	dashboard.DELETE("/insurance/:insuranceId", dashboardHandler.RemoveInsurancePartner)
	dashboard.GET("/notifications", dashboardHandler.GetNotifications)
	dashboard.PUT("/notifications/:id/read", dashboardHandler.MarkNotificationRead)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "medifinder",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + config.Getenv("PORT", "3000")))
}
