package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mechanicflow/internal/logging"
	"mechanicflow/internal/services"
)

// Store reads and writes client sidecar files.
type Store struct {
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore constructs a Store. A nil logger is replaced with a no-op logger.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger: logging.NewComponentLogger(logger, "metadata"),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one client directory. Paths are cleaned
// so equivalent spellings share a lock.
func (s *Store) lockFor(dir string) *sync.Mutex {
	key := filepath.Clean(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Path returns the sidecar location inside a client directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read parses the sidecar inside dir.
func (s *Store) Read(dir string) (*Record, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "metadata", "read",
				fmt.Sprintf("no client at %s", dir), nil)
		}
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, services.Wrap(services.ErrCorruptMetadata, "metadata", "read",
			fmt.Sprintf("unparseable sidecar at %s", dir), err)
	}
	return &rec, nil
}

// Write serializes the full record and replaces the sidecar. The write lands
// in a temp file in the same directory and is renamed into place so readers
// never observe a partial document.
func (s *Store) Write(dir string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("create temp sidecar: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp sidecar: %w", err)
	}
	if err := os.Rename(tmpName, Path(dir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace sidecar: %w", err)
	}
	return nil
}

// Update runs a read-modify-write on the sidecar under the directory's lock.
// The mutation sees the current record; on success updatedAt is stamped and
// the whole record written back. The updated record is returned.
func (s *Store) Update(dir string, mutate func(*Record) error) (*Record, error) {
	lock := s.lockFor(dir)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.Read(dir)
	if err != nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	rec.UpdatedAt = s.now().UTC()
	if err := s.Write(dir, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MergeStatus shallow-merges the supplied flags over the current status map.
// Flags absent from the patch keep their prior value.
func (s *Store) MergeStatus(dir string, patch StatusPatch) (StatusFlags, error) {
	rec, err := s.Update(dir, func(r *Record) error {
		r.Status = patch.Apply(r.Status)
		return nil
	})
	if err != nil {
		return StatusFlags{}, err
	}
	return rec.Status, nil
}
