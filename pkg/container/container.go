package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	borrowHandler "library-backend/internal/domains/borrow/handler"
	borrowRepo "library-backend/internal/domains/borrow/repository"
	borrowService "library-backend/internal/domains/borrow/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
//
// Initialization order matters:
// config → infrastructure (DB, cache) → repositories → services → handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	BookRepo   bookRepo.RepositoryInterface
	BorrowRepo borrowRepo.RepositoryInterface

	BookService   bookService.ServiceInterface
	BorrowService borrowService.ServiceInterface

	BookHandler   *bookHandler.Handler
	BorrowHandler *borrowHandler.Handler
}

func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	log.Println("📋 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	log.Println("🗄️  Connecting to PostgreSQL...")
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache failure is non-critical, reads fall through to Postgres.
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.BorrowRepo = borrowRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(c.BookRepo, c.Cache)
	c.BorrowService = borrowService.NewService(c.BorrowRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.BorrowHandler = borrowHandler.NewHandler(c.BorrowService)
}

// Cleanup releases infrastructure connections. Called on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Redis close error: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup complete")
}
