package webdav

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/kv"
	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/store"
)

const backupPrefix = "backup_"
const backupSuffix = ".json"

// Service implements backup and restore of all three buckets against a
// remote WebDAV endpoint, with a local-directory fallback when no remote
// is configured.
//
// A mutex serializes Test/Backup/Sync so a restore in flight can never
// interleave with another sync operation.
type Service struct {
	mu        sync.Mutex
	kv        kv.Store
	resources *store.ResourceStore
	groups    *store.GroupStore
	notes     *store.NoteStore
	localDir  string
	logger    logger.Logger
	now       func() time.Time
}

func NewService(
	backend kv.Store,
	resources *store.ResourceStore,
	groups *store.GroupStore,
	notes *store.NoteStore,
	localDir string,
	log logger.Logger,
) *Service {
	return &Service{
		kv:        backend,
		resources: resources,
		groups:    groups,
		notes:     notes,
		localDir:  localDir,
		logger:    log,
		now:       time.Now,
	}
}

// Config loads the persisted remote configuration. A never-written
// config reads as empty.
func (s *Service) Config(ctx context.Context) (domain.SyncConfig, error) {
	data, err := s.kv.Get(ctx, kv.BucketSyncConfig)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return domain.SyncConfig{}, nil
		}
		return domain.SyncConfig{}, fmt.Errorf("failed to load sync config: %w", err)
	}

	var cfg domain.SyncConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.SyncConfig{}, fmt.Errorf("failed to parse sync config: %w", err)
	}
	return cfg, nil
}

// SaveConfig persists the remote configuration.
func (s *Service) SaveConfig(ctx context.Context, cfg domain.SyncConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync config: %w", err)
	}
	if err := s.kv.Set(ctx, kv.BucketSyncConfig, data); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	return nil
}

// localMode reports whether backup/sync should use the local directory
// instead of a remote endpoint.
func (s *Service) localMode(cfg domain.SyncConfig) bool {
	return cfg.URL == "" && s.localDir != ""
}

// TestConnection probes the configured endpoint and path without
// mutating any store.
func (s *Service) TestConnection(ctx context.Context, override *domain.SyncConfig) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.resolveConfig(ctx, override)
	if err != nil {
		return domain.Result{Success: false, Message: err.Error()}
	}

	if s.localMode(cfg) {
		return domain.Result{
			Success: true,
			Message: "local mode: backups will use " + s.localDir + " until a remote endpoint is configured",
		}
	}
	if cfg.URL == "" {
		return domain.Result{Success: false, Message: "webdav url is not configured"}
	}

	if err := NewClient(cfg).Probe(ctx); err != nil {
		s.logger.Warn("webdav connection test failed", logger.Error(err))
		return domain.Result{Success: false, Message: err.Error()}
	}
	return domain.Result{Success: true, Message: "connection successful"}
}

// Backup snapshots all three buckets into one bundle and writes it under
// a name derived from the current date. A same-day backup silently
// overwrites the previous one.
func (s *Service) Backup(ctx context.Context) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.resolveConfig(ctx, nil)
	if err != nil {
		return domain.Result{Success: false, Message: err.Error()}
	}
	if cfg.URL == "" && !s.localMode(cfg) {
		return domain.Result{Success: false, Message: "webdav is not configured"}
	}

	bundle, err := s.collect(ctx)
	if err != nil {
		return domain.Result{Success: false, Message: err.Error()}
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return domain.Result{Success: false, Message: fmt.Sprintf("failed to marshal backup: %v", err)}
	}

	filename := backupPrefix + s.now().UTC().Format("2006-01-02") + backupSuffix

	if s.localMode(cfg) {
		target := filepath.Join(s.localDir, filename)
		if err := os.MkdirAll(s.localDir, 0o755); err != nil {
			return domain.Result{Success: false, Message: fmt.Sprintf("local backup error: %v", err)}
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return domain.Result{Success: false, Message: fmt.Sprintf("local backup error: %v", err)}
		}
		s.logger.Info("local backup written", logger.String("file", target))
		return domain.Result{Success: true, Message: "local mode: backup written to " + target}
	}

	if err := NewClient(cfg).Put(ctx, filename, data); err != nil {
		s.logger.Error("webdav backup failed", logger.Error(err))
		return domain.Result{Success: false, Message: err.Error()}
	}

	s.logger.Info("webdav backup uploaded",
		logger.String("file", filename),
		logger.Int("resources", len(bundle.Resources)),
		logger.Int("groups", len(bundle.Groups)),
		logger.Int("notes", len(bundle.Notes)))
	return domain.Result{Success: true, Message: "backup successful"}
}

// Sync fetches the most recent backup and replaces all three buckets
// wholesale with its contents. Destructive: local data not present in
// the bundle is lost. The pre-sync state is kept in the
// local_sync_backup bucket as a safety copy.
func (s *Service) Sync(ctx context.Context) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.resolveConfig(ctx, nil)
	if err != nil {
		return domain.Result{Success: false, Message: err.Error()}
	}
	if cfg.URL == "" && !s.localMode(cfg) {
		return domain.Result{Success: false, Message: "webdav is not configured"}
	}

	var data []byte
	var source string
	if s.localMode(cfg) {
		data, source, err = s.latestLocalBackup()
	} else {
		data, source, err = s.latestRemoteBackup(ctx, cfg)
	}
	if err != nil {
		s.logger.Warn("sync failed", logger.Error(err))
		return domain.Result{Success: false, Message: err.Error()}
	}

	var bundle domain.BackupBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return domain.Result{Success: false, Message: fmt.Sprintf("failed to parse backup: %v", err)}
	}

	if err := s.restore(ctx, bundle); err != nil {
		return domain.Result{Success: false, Message: err.Error()}
	}

	s.logger.Info("sync restored backup",
		logger.String("source", source),
		logger.Int("resources", len(bundle.Resources)),
		logger.Int("groups", len(bundle.Groups)),
		logger.Int("notes", len(bundle.Notes)))
	return domain.Result{Success: true, Message: "restored backup " + source}
}

func (s *Service) resolveConfig(ctx context.Context, override *domain.SyncConfig) (domain.SyncConfig, error) {
	if override != nil {
		return *override, nil
	}
	return s.Config(ctx)
}

func (s *Service) collect(ctx context.Context) (domain.BackupBundle, error) {
	resources, err := s.resources.List(ctx)
	if err != nil {
		return domain.BackupBundle{}, err
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return domain.BackupBundle{}, err
	}
	notes, err := s.notes.List(ctx)
	if err != nil {
		return domain.BackupBundle{}, err
	}
	return domain.BackupBundle{
		Resources: resources,
		Groups:    groups,
		Notes:     notes,
		Timestamp: s.now().UnixMilli(),
	}, nil
}

// restore replaces the buckets with the bundle contents, keeping a
// safety copy of the pre-sync state first.
func (s *Service) restore(ctx context.Context, bundle domain.BackupBundle) error {
	current, err := s.collect(ctx)
	if err != nil {
		return err
	}
	if safety, err := json.Marshal(current); err == nil {
		if err := s.kv.Set(ctx, kv.BucketLocalSyncBackup, safety); err != nil {
			s.logger.Warn("failed to write pre-sync safety copy", logger.Error(err))
		}
	}

	if bundle.Resources != nil {
		if err := s.resources.ReplaceAll(ctx, bundle.Resources); err != nil {
			return err
		}
	}
	if bundle.Groups != nil {
		if err := s.groups.ReplaceAll(ctx, bundle.Groups); err != nil {
			return err
		}
	}
	if bundle.Notes != nil {
		if err := s.notes.ReplaceAll(ctx, bundle.Notes); err != nil {
			return err
		}
	}
	return nil
}

// backupDate extracts the embedded date from a backup file name.
func backupDate(filename string) (time.Time, bool) {
	if !strings.HasPrefix(filename, backupPrefix) || !strings.HasSuffix(filename, backupSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(filename, backupPrefix), backupSuffix)
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (s *Service) latestRemoteBackup(ctx context.Context, cfg domain.SyncConfig) ([]byte, string, error) {
	client := NewClient(cfg)

	hrefs, err := client.List(ctx)
	if err != nil {
		return nil, "", err
	}

	var latestHref, latestName string
	var latestDate time.Time
	for _, href := range hrefs {
		name := Basename(href)
		date, ok := backupDate(name)
		if !ok {
			continue
		}
		if latestHref == "" || date.After(latestDate) {
			latestHref = href
			latestName = name
			latestDate = date
		}
	}
	if latestHref == "" {
		return nil, "", fmt.Errorf("no backup file found on remote")
	}

	data, err := client.Get(ctx, latestHref)
	if err != nil {
		return nil, "", err
	}
	return data, latestName, nil
}

func (s *Service) latestLocalBackup() ([]byte, string, error) {
	entries, err := os.ReadDir(s.localDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read local backup dir: %w", err)
	}

	var latestName string
	var latestDate time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := backupDate(entry.Name())
		if !ok {
			continue
		}
		if latestName == "" || date.After(latestDate) {
			latestName = entry.Name()
			latestDate = date
		}
	}
	if latestName == "" {
		return nil, "", fmt.Errorf("no backup file found in %s", s.localDir)
	}

	data, err := os.ReadFile(filepath.Join(s.localDir, latestName))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read local backup: %w", err)
	}
	return data, latestName, nil
}
