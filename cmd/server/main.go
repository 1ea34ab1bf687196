package main

import (
	"context"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/auth"
	"github.com/erpbridge/xml-erp-bridge/internal/config"
	"github.com/erpbridge/xml-erp-bridge/internal/database"
	"github.com/erpbridge/xml-erp-bridge/internal/erpclient"
	"github.com/erpbridge/xml-erp-bridge/internal/handler"
	"github.com/erpbridge/xml-erp-bridge/internal/logging"
	"github.com/erpbridge/xml-erp-bridge/internal/repository"
	"github.com/erpbridge/xml-erp-bridge/internal/server"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
	"github.com/erpbridge/xml-erp-bridge/internal/storage"
)

// @title XML ERP Bridge API
// @version 1.0
// @description Scans FATURALAR/TAHSILATLAR exports into review sessions and dispatches them to the ERP.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	// Session store
	var backend session.Backend
	switch cfg.SessionBackend {
	case "redis":
		redisBackend := session.NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisBackend.Ping(ctx); err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisBackend.Close()
		backend = redisBackend
	default:
		backend = session.NewMemoryBackend()
	}
	store := session.NewStore(backend, cfg.SessionTTL, session.WithLogger(logger))
	logger.WithFields(logrus.Fields{"backend": cfg.SessionBackend, "ttl": cfg.SessionTTL}).Info("session store ready")

	// Optional dispatch audit log
	var audit repository.DispatchLogRepository = repository.NoopDispatchLogRepository{}
	if cfg.PostgresDBURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.PostgresDBURL)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer db.Close()
		audit = repository.NewPostgresDispatchLogRepository(db.GetPool())
		logger.Info("dispatch audit log enabled")
	}

	// Optional upload archive
	var archiver storage.Archiver = storage.NoopArchiver{}
	if cfg.ArchiveS3.Enabled() {
		s3Archiver, err := storage.NewS3Archiver(&storage.Config{
			Endpoint:        cfg.ArchiveS3.Endpoint,
			AccessKeyID:     cfg.ArchiveS3.AccessKeyID,
			AccessKeySecret: cfg.ArchiveS3.AccessKeySecret,
			Bucket:          cfg.ArchiveS3.Bucket,
			Region:          cfg.ArchiveS3.Region,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to configure upload archive")
		}
		archiver = s3Archiver
		logger.WithField("bucket", cfg.ArchiveS3.Bucket).Info("upload archive enabled")
	}

	erp := erpclient.NewClient(&erpclient.Config{
		Username:   cfg.ERPUser,
		Password:   cfg.ERPPassword,
		JournalURL: cfg.ERPJournalURL,
		SalesURL:   cfg.ERPSalesURL,
		Timeout:    cfg.ERPTimeout,
		Logger:     logger,
	})

	documentMapper := service.NewDocumentMapper(cfg.Mapping)
	scanService := service.NewScanService(documentMapper, store, archiver, logger)
	dispatchService := service.NewDispatchService(store, documentMapper, erp, service.DispatchOptions{
		Audit:           audit,
		DeleteOnSuccess: cfg.SessionDeleteOnSuccess,
		Logger:          logger,
	})

	appServer := server.NewServer(cfg, server.Dependencies{
		ScanHandler:    handler.NewScanHandler(scanService, cfg.MaxUploadBytes, logger),
		ProcessHandler: handler.NewProcessHandler(dispatchService, cfg.MaxUploadBytes, logger),
		Verifier:       newVerifier(cfg),
		AllowList:      auth.NewAllowList(cfg.AllowedEmails),
		Sessions:       store,
		Logger:         logger,
	})

	// Start server (blocking call)
	if err := appServer.Start(); err != nil {
		logger.WithError(err).Error("server error")
		return
	}
	logger.Info("server shutdown complete")
}

func newVerifier(cfg *config.Config) auth.Verifier {
	switch cfg.AuthMode {
	case "jwt":
		return auth.NewJWTVerifier(cfg.AuthJWTSecret)
	case "none":
		return auth.NoneVerifier{}
	default:
		return auth.NewGoogleVerifier(cfg.GoogleClientID)
	}
}
