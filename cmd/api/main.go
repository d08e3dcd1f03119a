package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "propvest-backend/internal/adapter/http"
	"propvest-backend/internal/adapter/middleware"
	"propvest-backend/internal/adapter/repository/mysql"
	"propvest-backend/internal/config"
	"propvest-backend/internal/domain/portfolio"
	rentalDomain "propvest-backend/internal/domain/rental"
	walletDomain "propvest-backend/internal/domain/wallet"
	"propvest-backend/internal/infrastructure/cache"
	"propvest-backend/internal/infrastructure/db"
	rentalUsecase "propvest-backend/internal/usecase/rental"
	walletUsecase "propvest-backend/internal/usecase/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap: %v", err)
	}
	defer logger.Sync()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql connect", zap.Error(err))
	}
	if err := gdb.AutoMigrate(
		&walletDomain.Account{},
		&walletDomain.Transaction{},
		&rentalDomain.Period{},
		&rentalDomain.Distribution{},
		&rentalDomain.Expense{},
		&rentalDomain.Payment{},
		&portfolio.Holding{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}

	// repositories
	wallets := mysql.NewWalletRepository(gdb)
	periods := mysql.NewPeriodRepository(gdb)
	dists := mysql.NewDistributionRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	holdings := mysql.NewPortfolioRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// usecases
	ledger := walletUsecase.NewUsecase(wallets, uow, logger)
	engine := rentalUsecase.NewUsecase(periods, dists, payments, holdings, uow, logger)
	processor := rentalUsecase.NewProcessor(dists, payments, ledger, uow, logger)

	// handlers
	h := httpadp.NewHandler()
	wh := httpadp.NewWalletHandler(ledger)
	rh := httpadp.NewRentalHandler(engine, processor)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/wallets/accounts", wh.CreateAccount)
	e.POST("/wallets/credit", wh.Credit)
	e.POST("/wallets/debit", wh.Debit)
	e.POST("/wallets/transfer", wh.Transfer)
	e.GET("/wallets/:owner_id/balance", wh.Balance)
	e.GET("/wallets/accounts/:account_id/transactions", wh.Transactions)

	e.POST("/rental/periods", rh.OpenPeriod)
	e.POST("/rental/distributions", rh.ComputeDistribution)
	e.POST("/rental/distributions/:distribution_id/process", rh.Process)
	e.POST("/rental/distributions/:distribution_id/cancel", rh.Cancel)
	e.GET("/rental/distributions/:distribution_id/summary", rh.Summary)

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
