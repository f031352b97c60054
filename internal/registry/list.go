package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mechanicflow/internal/fileutil"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
)

// Summary is the listing view of one client.
type Summary struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Path           string               `json:"path"`
	Date           string               `json:"date"`
	CreatedAt      time.Time            `json:"createdAt"`
	Status         metadata.StatusFlags `json:"status"`
	ProcessedCount int                  `json:"processedCount"`
	Tasks          []metadata.Task      `json:"tasks"`
}

// List returns summaries for every active client, newest first. The result is
// served from the cached snapshot when one exists; otherwise the base
// directory is rescanned and the snapshot repopulated. Unreadable sidecars are
// logged and skipped rather than failing the whole listing.
func (r *Registry) List() ([]Summary, error) {
	if cached := r.cache.Load(); cached != nil {
		return *cached, nil
	}

	entries, err := os.ReadDir(r.base)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("scan base directory: %w", err)
	}

	clients := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		clientBase := filepath.Join(r.base, entry.Name())
		dateEntries, err := os.ReadDir(clientBase)
		if err != nil {
			r.logger.Warn("skipping unreadable client folder",
				logging.String("path", clientBase), logging.Error(err))
			continue
		}
		for _, dateEntry := range dateEntries {
			if !dateEntry.IsDir() {
				continue
			}
			workPath := filepath.Join(clientBase, dateEntry.Name())
			rec, err := r.store.Read(workPath)
			if err != nil {
				r.logger.Warn("skipping unreadable client metadata",
					logging.String("path", workPath), logging.Error(err))
				continue
			}
			clients = append(clients, Summary{
				ID:             rec.ID,
				Name:           rec.Name,
				Path:           workPath,
				Date:           dateEntry.Name(),
				CreatedAt:      rec.CreatedAt,
				Status:         rec.Status,
				ProcessedCount: fileutil.CountEntries(filepath.Join(workPath, metadata.SubfolderProcessed)),
				Tasks:          rec.Tasks,
			})
		}
	}

	sort.SliceStable(clients, func(i, j int) bool {
		if !clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].CreatedAt.After(clients[j].CreatedAt)
		}
		return r.collator.CompareString(clients[i].Name, clients[j].Name) < 0
	})

	r.cache.Store(&clients)
	return clients, nil
}
