package main

import (
	"context"
	"log"
	"net/http"

	"collabgo/backend/internal/api/handler"
	"collabgo/backend/internal/auth"
	"collabgo/backend/internal/config"
	"collabgo/backend/internal/models"
	"collabgo/backend/internal/realtime"
	"collabgo/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Message{},
		&models.Task{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting collabgo backend...")

	cfg := config.Load()
	db, rdb := setupDependencies(cfg)
	store := storage.NewStorageService(db, rdb)

	authSvc := auth.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, store)
	hub := realtime.NewHub(authSvc, store)
	go hub.RunRelay(store.SubscribeRooms())

	r := gin.Default()
	h := handler.NewHandler(hub, authSvc, store)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Backend is running!"})
	})
	r.POST("/api/users/login", h.Login)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api", h.RequireAuth)
	{
		api.GET("/projects/:projectId/messages", h.GetMessagesForProject)
		api.GET("/projects/:projectId/tasks", h.GetTasksForProject)
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:taskId", h.UpdateTask)
		api.GET("/notifications", h.GetNotifications)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)
	}

	server := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
