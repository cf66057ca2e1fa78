package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"mindease-chat/internal/ai"
	appsvc "mindease-chat/internal/app"
	"mindease-chat/internal/bootstrap"
	"mindease-chat/internal/cache"
	"mindease-chat/internal/identity"
	"mindease-chat/internal/platform/rabbitmq"
	"mindease-chat/internal/repository"
	"mindease-chat/internal/session"
	"mindease-chat/internal/transcript"
	"mindease-chat/internal/transport/http/handler"
	"mindease-chat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	sessionTTL := time.Duration(app.Config.Auth.SessionTTLMinute) * time.Minute
	sessions := session.NewStore(app.Redis, sessionTTL)
	transcripts := transcript.NewStore(app.Redis, sessionTTL)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	identityClient := identity.NewClient(app.Config.Identity.BaseURL, app.Config.Identity.APIKey)
	authService := appsvc.NewAuthService(
		identityClient,
		userRepo,
		sessions,
		transcripts,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(messageRepo, publisher, transcripts, historyCache, ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	})

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)

	authSession := middleware.AuthSession(app.Config.Auth.JWTSecret, sessions)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authSession, authHandler.Logout)
	authGroup.GET("/me", authSession, authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authSession)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/stream", chatHandler.StreamMessage)
	chatGroup.GET("/transcript", chatHandler.GetTranscript)
	chatGroup.GET("/history", chatHandler.GetHistory)

	return router
}
