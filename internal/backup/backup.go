// Package backup ships encrypted copies of the SQLite database to
// S3-compatible storage on a nightly schedule. The database here is a
// personal journal; off-site copies are encrypted before they leave the
// machine and the passphrase never does.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const keyPrefix = "backups/"

// s3Client is the subset of the S3 API the manager uses, as an interface
// for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration. Endpoint is optional
// and covers non-AWS providers.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration.
type Config struct {
	S3            S3Config
	DBPath        string
	Passphrase    string
	Hour          int // UTC hour for the nightly run
	RetentionDays int
}

// Manager runs scheduled encrypted backups and prunes old ones.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	client s3Client
	db     *sql.DB
	logger *slog.Logger

	lastRunDay string
	lastBackup *time.Time
	lastErr    string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a backup manager. It is disabled until the S3
// credentials and passphrase are all present.
func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	m := &Manager{cfg: cfg, db: db, logger: logger}
	if m.configured() {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

func (m *Manager) configured() bool {
	return m.cfg.S3.Bucket != "" && m.cfg.S3.AccessKey != "" &&
		m.cfg.S3.SecretKey != "" && m.cfg.Passphrase != ""
}

// Enabled reports whether the manager has everything it needs to run.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// LastBackup returns the completion time of the most recent successful
// backup, or nil, plus the last error message if the latest run failed.
func (m *Manager) LastBackup() (*time.Time, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastBackup, m.lastErr
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the nightly schedule loop. No-op when disabled.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() {
		return
	}

	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkSchedule(ctx)
			}
		}
	}()
}

// Stop gracefully stops the schedule loop.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// checkSchedule runs at most one backup per UTC day, in the configured
// hour. Tracking the day instead of the minute means a tick lost to
// downtime does not skip that night's backup entirely.
func (m *Manager) checkSchedule(ctx context.Context) {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")

	m.mu.RLock()
	alreadyRan := m.lastRunDay == today
	hour := m.cfg.Hour
	retention := m.cfg.RetentionDays
	m.mu.RUnlock()

	if alreadyRan || now.Hour() < hour {
		return
	}

	m.mu.Lock()
	m.lastRunDay = today
	m.mu.Unlock()

	key, err := m.RunNow(ctx)
	if err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
		return
	}
	m.logger.Info("backup uploaded", "key", key)

	if retention <= 0 {
		retention = 30
	}
	if err := m.Cleanup(ctx, retention); err != nil {
		m.logger.Error("backup cleanup failed", "error", err)
	}
}

// RunNow checkpoints the WAL, snapshots the database file, encrypts the
// snapshot, and uploads it. Returns the object key.
func (m *Manager) RunNow(ctx context.Context) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("backup not configured")
	}

	key := fmt.Sprintf("%sbloom-%s.db.enc", keyPrefix, time.Now().UTC().Format("20060102T150405Z"))

	data, err := m.snapshot(ctx)
	if err != nil {
		m.setErr(err)
		return "", err
	}

	sealed, err := Encrypt(data, m.cfg.Passphrase)
	if err != nil {
		m.setErr(err)
		return "", fmt.Errorf("encrypt backup: %w", err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		m.setErr(err)
		return "", fmt.Errorf("upload backup: %w", err)
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.lastBackup = &now
	m.lastErr = ""
	m.mu.Unlock()

	return key, nil
}

// snapshot checkpoints the WAL into the main file and reads it. The
// checkpoint makes the bare file a complete, consistent copy.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	if _, err := m.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return nil, fmt.Errorf("wal checkpoint: %w", err)
	}
	data, err := os.ReadFile(m.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	return data, nil
}

func (m *Manager) setErr(err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
}

// Cleanup deletes backup objects older than the retention period. Age comes
// from the object's LastModified, so renamed or hand-uploaded objects under
// the prefix age out too.
func (m *Manager) Cleanup(ctx context.Context, retentionDays int) error {
	if !m.Enabled() {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	out, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Prefix: aws.String(keyPrefix),
	})
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	for _, obj := range out.Contents {
		if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
			continue
		}
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    obj.Key,
		}); err != nil {
			m.logger.Error("delete old backup", "key", aws.ToString(obj.Key), "error", err)
		}
	}
	return nil
}

// Restore downloads a backup object, decrypts it, validates SQLite
// integrity, and replaces the database file. The caller must restart the
// process afterwards; open connections still point at the old file.
func (m *Manager) Restore(ctx context.Context, key string) error {
	if !m.Enabled() {
		return fmt.Errorf("backup not configured")
	}
	if !strings.HasPrefix(key, keyPrefix) {
		key = keyPrefix + key
	}

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download backup: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	plain, err := Decrypt(sealed, m.cfg.Passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	tmp := m.cfg.DBPath + ".restore"
	if err := os.WriteFile(tmp, plain, 0600); err != nil {
		return fmt.Errorf("write restored db: %w", err)
	}
	defer os.Remove(tmp)

	if err := checkIntegrity(tmp); err != nil {
		return err
	}

	if err := os.Rename(tmp, m.cfg.DBPath); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	os.Remove(m.cfg.DBPath + "-wal")
	os.Remove(m.cfg.DBPath + "-shm")

	return nil
}

func checkIntegrity(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
