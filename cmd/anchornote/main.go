package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"anchornote/internal/anchornote/adapters/cache"
	"anchornote/internal/anchornote/adapters/ethrpc"
	httpServer "anchornote/internal/anchornote/adapters/http"
	"anchornote/internal/anchornote/adapters/postgres"
	"anchornote/internal/anchornote/app"
	"anchornote/internal/anchornote/config"
	"anchornote/internal/anchornote/db"
	"anchornote/internal/anchornote/resilience"
	"anchornote/pkg/logger"
	"anchornote/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "ANCHORNOTE_LOGGER_MODE"
	EnvLoggerLevel = "ANCHORNOTE_LOGGER_LEVEL"
)

// Путь к миграциям по умолчанию.
const migrationsDir = "migrations/anchornote"

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDatabase         = "failed to initialize database"
	ErrCreateLedgerClient   = "failed to create ledger client"
	ErrCreateRedisCache     = "failed to create Redis cache"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "anchornote service started"
	LogServiceShutdownDone = "anchornote service shutdown complete"
	LogInitDatabase        = "initializing database"
	LogInitLedgerClient    = "initializing ledger client"
	LogInitCache           = "initializing ledger record cache"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogLedgerUnavailable   = "ledger node is not reachable, notes will be saved locally only"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitDatabase)
		database, err := db.New(ctx, &cfg.Postgres, migrationsDir)
		if err != nil {
			log.Error(ctx, ErrInitDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitLedgerClient, zap.String("endpoint", cfg.Ledger.Endpoint))
		ledgerClient, err := ethrpc.New(ctx, &cfg.Ledger, resilience.NewDefaultLedgerResilience())
		if err != nil {
			log.Error(ctx, ErrCreateLedgerClient, zap.Error(err))
			exitCode = 1
			return
		}

		if !ledgerClient.IsReachable(ctx) {
			log.Warn(ctx, LogLedgerUnavailable, zap.String("endpoint", cfg.Ledger.Endpoint))
		}

		log.Info(ctx, LogInitCache)
		recordCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			// Кэш необязателен: проверка работает и напрямую через реестр.
			log.Warn(ctx, ErrCreateRedisCache, zap.Error(err))
			recordCache = nil
		}

		log.Info(ctx, LogInitUseCases)
		repos := postgres.NewRepositoryFactory(database.Pool())
		anchoringUseCase := app.NewAnchoringUseCase(repos.AnchorRepository(), ledgerClient, cfg.Ledger.SubmitTimeout)
		verificationUseCase := app.NewVerificationUseCase(repos.AnchorRepository(), ledgerClient, recordCache, cfg.Ledger.FetchTimeout)
		noteUseCase := app.NewNoteUseCase(repos.NoteRepository(), anchoringUseCase)

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpServer.SetupRouter(fiberApp, noteUseCase, verificationUseCase, ledgerClient)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			// Закрытие клиента реестра.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing ledger client")
				ledgerClient.Close()
				return nil
			},
			// Закрытие Redis соединения.
			func(ctx context.Context) error {
				if recordCache == nil {
					return nil
				}
				log.Info(ctx, "Closing Redis connection")
				return recordCache.Close()
			},
			// Закрытие соединения с базой данных.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing database connection")
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
