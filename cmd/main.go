package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/infrastructure"
	"botpage/internal/interfaces"
	"botpage/internal/interfaces/http"
	"botpage/internal/repository"
	"botpage/internal/usecases"
	"botpage/pkg/config"
)

func main() {
	// Load .env file if present
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to PostgreSQL
	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pgClient.Close()

	// Initialize Repositories
	accountRepo := repository.NewAccountRepository(pgClient.Pool)
	tenantRepo := repository.NewTenantRepository(pgClient.Pool)
	conversationRepo := repository.NewConversationRepository(pgClient.Pool)

	// Key cipher for stored provider keys
	keyCipher, err := infrastructure.NewKeyCipher(cfg.EncryptionSecret)
	if err != nil {
		logger.Fatal("Failed to initialize key cipher", zap.Error(err))
	}

	// Optional logo storage
	var logoStore interfaces.LogoStore
	if cfg.Storage.URL != "" {
		logoStore = infrastructure.NewObjectStorage(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)
	} else {
		logger.Warn("STORAGE_URL not set, logo uploads disabled")
	}

	// AI providers, routed per tenant
	providers := map[string]interfaces.AIProvider{
		entities.ProviderOpenAI: infrastructure.NewOpenAIProvider(cfg.Chat.Model, cfg.Chat.MaxTokens, float32(cfg.Chat.Temperature)),
		entities.ProviderGemini: infrastructure.NewGeminiProvider(),
	}

	// Optional lead notification channel
	notifier := infrastructure.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.NotifyChat, logger)
	if notifier == nil {
		logger.Info("Telegram lead notifications disabled")
	}

	// Initialize Usecases
	onboardingUsecase := usecases.NewOnboardingUsecase(accountRepo, logoStore, keyCipher, logger)
	sessionUsecase := usecases.NewSessionUsecase(tenantRepo, conversationRepo, notifier, logger)
	chatUsecase := usecases.NewChatUsecase(tenantRepo, conversationRepo, keyCipher, providers, cfg.Chat.HistoryLimit, logger)
	authUsecase := usecases.NewAuthUsecase(accountRepo, cfg.JWTSecret)
	dashboardUsecase := usecases.NewDashboardUsecase(tenantRepo, conversationRepo)

	// Rate limiter for public session creation
	sessionLimiter := infrastructure.NewAddressRateLimiter(cfg.Session.RateLimit, cfg.Session.RateWindow)

	// Setup HTTP server
	middleware := http.NewMiddleware(cfg.JWTSecret)
	handler := http.NewHandler(onboardingUsecase, sessionUsecase, chatUsecase, tenantRepo, sessionLimiter, logger)
	dashboardHandler := http.NewDashboardHandler(dashboardUsecase, logger)

	r := gin.Default()
	http.SetupRoutes(r, handler, dashboardHandler, authUsecase, middleware)

	logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
