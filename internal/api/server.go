package api

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/lnuais/member_service/config"
	"github.com/lnuais/member_service/infra/queue"
	"github.com/lnuais/member_service/internal/api/rest/handlers"
	"github.com/lnuais/member_service/internal/api/rest/middleware"
	"github.com/lnuais/member_service/internal/domain"
	"github.com/lnuais/member_service/internal/interfaces"
	"github.com/lnuais/member_service/internal/oauth"
	"github.com/lnuais/member_service/internal/repository"
	"github.com/lnuais/member_service/internal/services"
	"github.com/lnuais/member_service/internal/session"
	"github.com/lnuais/member_service/pkg/cloudinary"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Compatibility stage: must run before validation and routing, once per
	// request.
	app.Use(middleware.NewRewrite(middleware.DefaultAliases()))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260830

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Redis (sessions + oauth state) ----------
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	rdb := redis.NewClient(redisOpt)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	log.Println("redis connected")

	store := session.NewRedisStore(rdb)
	sessions := session.NewManager(store, session.DefaultTTL)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	var uploader interfaces.Uploader
	if cld, err := cloudinary.New(); err != nil {
		log.Printf("cloudinary init error (avatar upload disabled): %v", err)
	} else {
		uploader = cloudinary.NewCloudinaryUploader(cld)
	}

	google := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}, store)

	// ---------- Repositories / Service ----------
	userRepo := repository.NewUserRepository(db)
	userSvc := services.NewUserService(userRepo, kafkaProducer, uploader)

	// ---------- Handlers ----------
	requireAuth := middleware.SessionAuth(sessions)

	authHandler := handlers.NewAuthHandler(userSvc, sessions, google, cfg.FrontendURL)
	authHandler.SetupRoutes(app, requireAuth)

	userHandler := handlers.NewUserHandler(userSvc)
	userHandler.SetupRoutes(app, requireAuth)

	// ---------- Health ----------
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now()})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
