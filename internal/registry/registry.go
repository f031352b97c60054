package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mechanicflow/internal/clientid"
	"mechanicflow/internal/config"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/services"
)

// TrashFolderName is the reserved top-level trash folder. Top-level folders
// with a leading underscore never appear in listings. The name itself is
// owned by the config package so path derivation has one source of truth.
const TrashFolderName = config.TrashFolderName

// Registry exposes client lifecycle operations over a base directory.
type Registry struct {
	base     string
	store    *metadata.Store
	logger   *slog.Logger
	collator *collate.Collator
	now      func() time.Time

	cache atomic.Pointer[[]Summary]
}

// New constructs a Registry rooted at base.
func New(base string, store *metadata.Store, logger *slog.Logger) *Registry {
	if store == nil {
		store = metadata.NewStore(logger)
	}
	return &Registry{
		base:     base,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "registry"),
		collator: collate.New(language.Spanish, collate.IgnoreCase),
		now:      time.Now,
	}
}

// Base returns the root client directory.
func (r *Registry) Base() string {
	return r.base
}

// Store exposes the sidecar store for collaborators such as the task manager.
func (r *Registry) Store() *metadata.Store {
	return r.store
}

// Invalidate discards the listing snapshot so the next List rescans disk.
func (r *Registry) Invalidate() {
	r.cache.Store(nil)
}

// ResolvePath maps a client id to its directory.
func (r *Registry) ResolvePath(id string) (string, error) {
	return clientid.ResolvePath(r.base, id)
}

// Dir resolves an id to the directory of an existing client; a missing
// directory fails with ErrNotFound rather than returning a dangling path.
func (r *Registry) Dir(id string) (string, error) {
	return r.requireDir(id)
}

// requireDir resolves an id and confirms the client directory exists.
func (r *Registry) requireDir(id string) (string, error) {
	dir, err := r.ResolvePath(id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, "registry", "resolve",
				fmt.Sprintf("client %s", id), nil)
		}
		return "", fmt.Errorf("stat client directory: %w", err)
	}
	return dir, nil
}

// Create builds a new client: the three-folder tree plus an initial sidecar
// with all status flags false and empty file and task lists. Duplicate display
// names on the same day share a directory; the sidecar is rewritten with the
// fresh identity, matching the tool this replaces. When the sidecar already
// holds a timestamp at or past the one being generated (repeat creates inside
// one millisecond), the new timestamp moves past it, so every create in the
// same instant still mints a distinct id.
func (r *Registry) Create(displayName string) (*metadata.Record, error) {
	sanitized := clientid.Sanitize(displayName)
	now := r.now()
	date := now.Format(clientid.DateFormat)
	millis := now.UnixMilli()

	dir := filepath.Join(r.base, sanitized, date)
	for _, sub := range metadata.Subfolders {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create client tree: %w", err)
		}
	}

	if existing, err := r.store.Read(dir); err == nil {
		if prev, perr := clientid.Parse(existing.ID); perr == nil {
			if prevMillis, merr := strconv.ParseInt(prev.Timestamp, 10, 64); merr == nil && prevMillis >= millis {
				millis = prevMillis + 1
			}
		}
	}
	id := clientid.Build(displayName, date, millis)

	rec := &metadata.Record{
		ID:        id,
		Name:      displayName,
		CreatedAt: now.UTC(),
		Status:    metadata.StatusFlags{},
		Files:     []metadata.FileRecord{},
		Tasks:     []metadata.Task{},
	}
	if err := r.store.Write(dir, rec); err != nil {
		return nil, err
	}

	r.Invalidate()
	r.logger.Info("client created",
		logging.String(logging.FieldClientID, rec.ID),
		logging.String("path", dir))
	return rec, nil
}
