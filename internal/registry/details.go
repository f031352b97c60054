package registry

import (
	"path/filepath"
	"time"

	"mechanicflow/internal/fileutil"
	"mechanicflow/internal/metadata"
)

// Detail is the deep view of one client: identity, status, and storage usage.
type Detail struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Path               string               `json:"path"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt,omitzero"`
	Status             metadata.StatusFlags `json:"status"`
	TotalSize          int64                `json:"totalSize"`
	TotalSizeFormatted string               `json:"totalSizeFormatted"`
	FileCount          int                  `json:"fileCount"`
	Originals          int                  `json:"originales"`
	Processed          int                  `json:"procesados"`
	Photos             int                  `json:"fotos"`
}

// Details sums file sizes and counts under the client directory, including
// per-subfolder counts and a human-readable total.
func (r *Registry) Details(id string) (*Detail, error) {
	dir, err := r.requireDir(id)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.Read(dir)
	if err != nil {
		return nil, err
	}

	totalSize, fileCount, err := fileutil.DirStats(dir)
	if err != nil {
		return nil, err
	}

	return &Detail{
		ID:                 rec.ID,
		Name:               rec.Name,
		Path:               dir,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
		Status:             rec.Status,
		TotalSize:          totalSize,
		TotalSizeFormatted: fileutil.FormatBytes(totalSize),
		FileCount:          fileCount,
		Originals:          fileutil.CountEntries(filepath.Join(dir, metadata.SubfolderOriginals)),
		Processed:          fileutil.CountEntries(filepath.Join(dir, metadata.SubfolderProcessed)),
		Photos:             fileutil.CountEntries(filepath.Join(dir, metadata.SubfolderPhotos)),
	}, nil
}
