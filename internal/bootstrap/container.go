package bootstrap

import (
	"log"
	"time"

	"loan-assist-be/internal/config"
	"loan-assist-be/internal/controller"
	"loan-assist-be/internal/pkg/logger"
	"loan-assist-be/internal/pkg/mailer"
	"loan-assist-be/internal/repository/memory"
	"loan-assist-be/internal/repository/unitofwork"
	"loan-assist-be/internal/service"
	"loan-assist-be/pkg/credit"
	"loan-assist-be/pkg/extract"
	"loan-assist-be/pkg/intake"
	"loan-assist-be/pkg/kyc"
	"loan-assist-be/pkg/sanction"
	"loan-assist-be/pkg/token"

	pktNats "loan-assist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	LetterController controller.ILetterController
	AdminController  controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		// Database-less development mode.
		log.Printf("[WARN] No database configured, using in-memory repositories")
		uowFactory = memory.NewRepositoryFactory()
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.OpsEmail,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// One-time download tokens live in Redis; without Redis they fall
	// back to the in-process store (single-instance deployments only).
	letterTokenTTL := time.Duration(cfg.Letter.TokenTTLMinutes) * time.Minute
	var tokenStore token.Store
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Fatalf("[FATAL] Invalid REDIS_URL: %v", err)
		}
		tokenStore = token.NewRedisStore(redis.NewClient(opts), letterTokenTTL)
	} else {
		log.Printf("[WARN] No Redis configured, using in-memory token store")
		tokenStore = token.NewMemoryStore(letterTokenTTL)
	}

	// 3. Intake Collaborators
	letterIssuer := sanction.NewLetterIssuer(
		sanction.Config{
			OutputDir:    cfg.Letter.OutputDir,
			CompanyName:  cfg.Letter.CompanyName,
			Website:      cfg.Letter.Website,
			InterestRate: cfg.Policy.InterestRateAnnual,
		},
		sanction.NewTextRenderer(),
		tokenStore,
	)

	machine := intake.NewMachine(
		intake.Config{InterestRateAnnual: cfg.Policy.InterestRateAnnual},
		extract.NewRuleExtractor(),
		kyc.NewFormatVerifier(),
		credit.NewRuleEvaluator(credit.Policy{
			MinMonthlyIncome:   cfg.Policy.MinMonthlyIncome,
			MaxFoir:            cfg.Policy.MaxFoir,
			InterestRateAnnual: cfg.Policy.InterestRateAnnual,
		}),
		letterIssuer,
	)

	lockRegistry := memory.NewLockRegistry(time.Duration(cfg.Policy.SessionTTLMinutes) * time.Minute)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.AuditTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.AuditTopic, uowFactory)

	intakeService := service.NewIntakeService(
		uowFactory,
		machine,
		lockRegistry,
		publisherService,
		natsPub,
		emailService,
		sysLogger,
		time.Duration(cfg.Policy.CollaboratorTimeoutSeconds)*time.Second,
	)
	adminService := service.NewAdminService(uowFactory, sysLogger)

	// 5. Controllers
	chatController := controller.NewChatController(intakeService)
	letterController := controller.NewLetterController(tokenStore)
	adminController := controller.NewAdminController(adminService)

	return &Container{
		ChatController:   chatController,
		LetterController: letterController,
		AdminController:  adminController,
		ConsumerService:  consumerService,
	}
}
