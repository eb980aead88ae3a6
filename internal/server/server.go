package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"aimpact-messaging/config"
	"aimpact-messaging/internal/handler"
	"aimpact-messaging/internal/middleware"
	"aimpact-messaging/internal/redis"
	"aimpact-messaging/internal/transport/httpdto"
	"aimpact-messaging/internal/websocket"
	"aimpact-messaging/pkg/database"
	"aimpact-messaging/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Users         *handler.UserHandler
	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
	Notifications *handler.NotificationHandler
	Tasks         *handler.TaskHandler
	WebSocket     *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	api := s.engine.Group("/api")

	users := api.Group("/users")
	{
		users.GET("", handlers.Users.List)
		users.GET("/online", handlers.Users.ListOnline)
		users.POST("/login", middleware.LoginRateLimitMiddleware(limiter), handlers.Users.Login)
		users.GET("/:id", handlers.Users.GetByID)
		users.POST("/:id/status", handlers.Users.UpdateStatus)
		users.POST("/:id/activity", handlers.Users.TouchActivity)
		users.POST("/:id/logout", handlers.Users.Logout)
	}

	conversations := api.Group("/conversations")
	{
		conversations.GET("", handlers.Conversations.ListForUser)
		conversations.GET("/all", handlers.Conversations.ListAll)
		conversations.POST("", handlers.Conversations.GetOrCreate)
	}

	messages := api.Group("/messages")
	{
		messages.POST("", handlers.Messages.Send)
		messages.GET("/conversation/:id", handlers.Messages.ListForConversation)
		messages.GET("/unread/count", handlers.Messages.CountUnread)
		messages.GET("/unread/count/conversation/:id", handlers.Messages.CountUnreadInConversation)
		messages.POST("/read/conversation/:id", handlers.Messages.MarkRead)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", handlers.Notifications.ListForUser)
		notifications.GET("/unread", handlers.Notifications.ListUnread)
		notifications.GET("/unread/count", handlers.Notifications.CountUnread)
		notifications.POST("", handlers.Notifications.Send)
		notifications.POST("/all", handlers.Notifications.SendToAll)
		notifications.POST("/:id/read", handlers.Notifications.MarkRead)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", handlers.Tasks.ListForUser)
		tasks.POST("", handlers.Tasks.Create)
		tasks.POST("/:id/complete", handlers.Tasks.Complete)
	}

	s.engine.GET("/ws", handlers.WebSocket.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
