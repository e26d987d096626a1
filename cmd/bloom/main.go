package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tessadair/bloom/internal/backup"
	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/database"
	"github.com/tessadair/bloom/internal/logging"
	"github.com/tessadair/bloom/internal/push"
	"github.com/tessadair/bloom/internal/server"
	"github.com/tessadair/bloom/internal/store"
)

func main() {
	restoreKey := flag.String("restore", "", "restore the database from the named backup object and exit")
	flag.Parse()

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("BLOOM_LOG_LEVEL"))

	port := os.Getenv("BLOOM_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("BLOOM_DB_PATH")
	if dbPath == "" {
		dbPath = "bloom.db"
	}

	backupCfg := backupConfigFromEnv(dbPath)

	if *restoreKey != "" {
		mgr := backup.NewManager(backupCfg, nil, logger)
		if err := mgr.Restore(context.Background(), *restoreKey); err != nil {
			log.Fatalf("restore failed: %v", err)
		}
		logger.Info("restore complete, start the server to use the restored database")
		return
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		SecureCookies:   os.Getenv("BLOOM_SECURE_COOKIES") == "true",
		VAPIDPublicKey:  os.Getenv("BLOOM_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("BLOOM_VAPID_PRIVATE_KEY"),
	}
	srv := server.New(db, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.StartBackgroundTasks(ctx)

	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		sender := push.NewSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		reminder := push.NewReminder(
			sender,
			store.NewPushStore(db),
			store.NewUserStore(db),
			clock.New(),
			logger.With("component", "push"),
		)
		reminder.Start(ctx)
		defer reminder.Stop()
	}

	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))
	if backupMgr.Enabled() {
		backupMgr.Start(ctx)
		defer backupMgr.Stop()
		logger.Info("nightly backups enabled", "bucket", backupCfg.S3.Bucket, "hour_utc", backupCfg.Hour)
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("bloom listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func backupConfigFromEnv(dbPath string) backup.Config {
	hour, _ := strconv.Atoi(os.Getenv("BLOOM_BACKUP_HOUR"))
	retention, _ := strconv.Atoi(os.Getenv("BLOOM_BACKUP_RETENTION_DAYS"))
	return backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("BLOOM_S3_ENDPOINT"),
			Bucket:    os.Getenv("BLOOM_S3_BUCKET"),
			Region:    os.Getenv("BLOOM_S3_REGION"),
			AccessKey: os.Getenv("BLOOM_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("BLOOM_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		Passphrase:    os.Getenv("BLOOM_BACKUP_PASSPHRASE"),
		Hour:          hour,
		RetentionDays: retention,
	}
}
