package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"gamemarket/internal/adapter/api"
	"gamemarket/internal/adapter/api/handler"
	apimiddleware "gamemarket/internal/adapter/api/middleware"
	"gamemarket/internal/adapter/api/router"
	"gamemarket/internal/adapter/repository"
	"gamemarket/internal/infrastructure/firebase"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/internal/infrastructure/storage"
	"gamemarket/internal/infrastructure/websocket"
	"gamemarket/internal/usecase"
	"gamemarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			log.Fatal("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH must be set")
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreGameAccountRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	walletRepo := repository.NewFirestoreWalletRepository(firestoreClient)
	walletRequestRepo := repository.NewFirestoreWalletRequestRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	supportRepo := repository.NewFirestoreSupportRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	fileMetadataRepo := repository.NewFirestoreFileMetadataRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	authUseCase := usecase.NewAuthUseCase(userRepo, walletRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, reviewRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, limiter)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, listingRepo, userRepo, wsManager, limiter, time.Duration(cfg.AutoReleaseHours)*time.Hour)
	walletUseCase := usecase.NewWalletUseCase(walletRepo, walletRequestRepo, wsManager, limiter)
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, userRepo, orderUseCase, wsManager, limiter)
	supportUseCase := usecase.NewSupportUseCase(supportRepo, wsManager)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, orderRepo, userRepo)
	adminUseCase := usecase.NewAdminUseCase(userRepo, listingRepo, orderRepo, walletRepo)

	handler.Setup(
		authUseCase,
		userUseCase,
		listingUseCase,
		orderUseCase,
		walletUseCase,
		chatUseCase,
		supportUseCase,
		reviewUseCase,
		adminUseCase,
	)
	handler.SetupFileHandler(storageClient, fileMetadataRepo)

	orderUseCase.StartAutoReleaseJob(ctx, 5*time.Minute)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(apimiddleware.GeneralRateLimit())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, userRepo)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(wsManager, authMiddleware, userUseCase))

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
