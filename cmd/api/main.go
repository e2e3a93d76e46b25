package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kariakita/internal/config"
	"kariakita/internal/domain/pricing"
	"kariakita/internal/handler"
	"kariakita/internal/infra/db"
	infraRepo "kariakita/internal/infra/repository"
	"kariakita/internal/infra/store"
	"kariakita/internal/infra/token"
	"kariakita/internal/repository"
	"kariakita/internal/server"
	"kariakita/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	//.env（無ければ環境変数だけ）
	config.LoadDotEnv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New("kariakita")
	logger.SetLevel(server.ParseLogLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//保存先
	docs, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("store: %v", err)
	}
	defer closeStore()

	charity, err := pricing.ParseCharityPolicy(cfg.CharityRate)
	if err != nil {
		logger.Fatalf("charity: %v", err)
	}

	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatalf("jwt: %v", err)
	}

	//Repository
	productRepo := infraRepo.NewProductRepository(docs, logger)
	categoryRepo := infraRepo.NewCategoryRepository(docs, logger)
	cartRepo := infraRepo.NewCartRepository(docs, logger)
	orderRepo := infraRepo.NewOrderRepository(docs, logger)
	userRepo := infraRepo.NewUserRepository(docs, logger)
	auditRepo := infraRepo.NewAuditLogRepository(docs, logger)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo, idGen, clock, logger)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productUC, charity, clock)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartUC, auditRepo, idGen, clock, logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderUC)
	accountUC := usecase.NewAccountUsecase(userRepo, auditRepo, cfg.AdminEmails, idGen, clock, logger)
	authUC := usecase.NewAuthUsecase(accountUC, issuer, idGen, clock)
	statsUC := usecase.NewStatsUsecase(productRepo, categoryRepo, orderRepo, userRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	//Handler生成
	e := server.New(cfg, logger, server.Handlers{
		Accounts:     accountUC,
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC, categoryUC),
		Sell:         handler.NewSellHandler(productUC, accountUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC, accountUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, categoryUC, accountUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC, accountUC),
		AdminUser:    handler.NewAdminUserHandler(accountUC, statsUC, auditUC),
	})

	logger.Infof("store=%s charity_rate=%s addr=%s", cfg.StoreDriver, charity.Rate().String(), cfg.Addr())

	//Server起動
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

// STORE_DRIVER に応じて DocumentStore を作る
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		gormDB, err := db.Connect(cfg.PostgresDSN(), cfg.GoEnv == "prod")
		if err != nil {
			return nil, nil, err
		}
		s := store.NewGormDocumentStore(gormDB)
		if err := s.Migrate(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return s, closeFn, nil

	case config.StoreDriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warnf("mongo disconnect: %v", err)
			}
		}
		return store.NewMongoDocumentStore(client, cfg.MongoDB), closeFn, nil

	default:
		logger.Warnf("memory store: data is lost on restart")
		return store.NewMemoryDocumentStore(), func() {}, nil
	}
}
