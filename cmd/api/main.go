package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"giglink/internal/adapter/api"
	"giglink/internal/adapter/api/handler"
	apimiddleware "giglink/internal/adapter/api/middleware"
	"giglink/internal/adapter/api/router"
	"giglink/internal/adapter/repository"
	"giglink/internal/domain/service"
	"giglink/internal/infrastructure/firebase"
	"giglink/internal/infrastructure/ratelimit"
	"giglink/internal/infrastructure/websocket"
	"giglink/internal/usecase"
	"giglink/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from env var in production, file path for local development
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebase.NewAuthClient(ctx, firebaseApp)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	offerRepo := repository.NewFirestoreOfferRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)

	registry := websocket.NewRegistry(userRepo)
	go registry.Run(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	offerEngine := service.NewOfferEngine(time.Duration(cfg.OfferExpiryDays)*24*time.Hour, cfg.OfferMinPrice)

	chatUseCase := usecase.NewChatUseCase(conversationRepo, messageRepo, userRepo, registry)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, orderRepo, conversationRepo, userRepo, offerEngine, chatUseCase, registry)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, chatUseCase, registry)

	eventHandler := websocket.NewEventHandler(registry, chatUseCase, limiter)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	conversationHandler := handler.NewConversationHandler(chatUseCase)
	offerHandler := handler.NewOfferHandler(offerUseCase)
	orderHandler := handler.NewOrderHandler(orderUseCase)
	wsHandler := handler.NewWebSocketHandler(registry, eventHandler, authMiddleware)

	router.Setup(e, authMiddleware, rateLimitMiddleware, conversationHandler, offerHandler, orderHandler, wsHandler)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
