package main

import (
	"context"
	"log"

	"aimpact-messaging/config"
	"aimpact-messaging/internal/events"
	"aimpact-messaging/internal/handler"
	"aimpact-messaging/internal/redis"
	"aimpact-messaging/internal/repository"
	"aimpact-messaging/internal/server"
	"aimpact-messaging/internal/services"
	"aimpact-messaging/internal/websocket"
	"aimpact-messaging/pkg/database"
	"aimpact-messaging/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer func() { _ = l.Logger.Sync() }()

	database.Connect(cfg)
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	if cfg.SeedOnStart {
		if err := database.Seed(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)
	taskRepo := repository.NewTaskRepository(database.DB)

	// Fan-out over Redis pub/sub
	publisher := redis.NewPublisher(redisClient)
	fanout := events.NewFanout(publisher, l)

	// Services
	userService := services.NewUserService(userRepo, messageRepo, l)
	conversationService := services.NewConversationService(conversationRepo, messageRepo, userService, l)
	messageService := services.NewMessageService(messageRepo, conversationRepo, userService, fanout, l)
	notificationService := services.NewNotificationService(notificationRepo, userService, fanout, l)
	presence := services.NewPresenceTracker(userService, l)
	taskService := services.NewTaskService(taskRepo, userService, l)

	// WebSocket hub and the Redis bridge feeding it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()

	subscriber := redis.NewSubscriber(redisClient)
	bridge := websocket.NewRedisBridge(subscriber, hub, l)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			l.Errorf("redis bridge stopped: %s", err)
		}
	}()

	limiter := redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())

	handlers := &server.Handlers{
		Users:         handler.NewUserHandler(userService),
		Conversations: handler.NewConversationHandler(conversationService),
		Messages:      handler.NewMessageHandler(messageService, limiter),
		Notifications: handler.NewNotificationHandler(notificationService),
		Tasks:         handler.NewTaskHandler(taskService),
		WebSocket:     websocket.NewHandler(hub, userService, presence, messageService, notificationService, l),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
