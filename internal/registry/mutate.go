package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"mechanicflow/internal/clientid"
	"mechanicflow/internal/fileutil"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
)

// UpdateStatus merges the supplied flags into the client's status map and
// returns the result.
func (r *Registry) UpdateStatus(id string, patch metadata.StatusPatch) (metadata.StatusFlags, error) {
	dir, err := r.ResolvePath(id)
	if err != nil {
		return metadata.StatusFlags{}, err
	}
	flags, err := r.store.MergeStatus(dir, patch)
	if err != nil {
		return metadata.StatusFlags{}, err
	}
	r.Invalidate()
	return flags, nil
}

// RenameResult reports the identity a client holds after a rename.
type RenameResult struct {
	NewID   string `json:"newId"`
	NewName string `json:"newName"`
}

// Rename updates the display name, recomputes the id keeping the original
// date and timestamp tokens, and moves the name-level directory when the
// sanitized name changes. A rename that sanitizes to the same folder is a
// pure display-name change with no filesystem move.
func (r *Registry) Rename(id, newName string) (*RenameResult, error) {
	decoded, err := clientid.Parse(id)
	if err != nil {
		return nil, err
	}
	dir, err := r.requireDir(id)
	if err != nil {
		return nil, err
	}

	newID := clientid.ID{Name: clientid.Sanitize(newName), Date: decoded.Date, Timestamp: decoded.Timestamp}.String()

	var oldName string
	_, err = r.store.Update(dir, func(rec *metadata.Record) error {
		oldName = rec.Name
		rec.Name = newName
		rec.ID = newID
		return nil
	})
	if err != nil {
		return nil, err
	}

	oldParent := filepath.Join(r.base, decoded.Name)
	newParent := filepath.Join(r.base, clientid.Sanitize(newName))
	if oldParent != newParent {
		if _, statErr := os.Stat(oldParent); statErr == nil {
			if err := os.Rename(oldParent, newParent); err != nil {
				return nil, fmt.Errorf("move client folder: %w", err)
			}
		}
	}

	r.Invalidate()
	r.logger.Info("client renamed",
		logging.String(logging.FieldClientID, newID),
		logging.String("previous_name", oldName))
	return &RenameResult{NewID: newID, NewName: newName}, nil
}

// DeleteResult reports where a soft-deleted client landed.
type DeleteResult struct {
	MovedTo string `json:"movedTo"`
}

// Delete soft-deletes a client: the date folder moves into the trash under a
// timestamp-suffixed name, and the now-empty parent name folder is removed.
// There is no restore operation; recovery means inspecting the trash by hand.
func (r *Registry) Delete(id string) (*DeleteResult, error) {
	dir, err := r.requireDir(id)
	if err != nil {
		return nil, err
	}

	trash := filepath.Join(r.base, TrashFolderName)
	if err := os.MkdirAll(trash, 0o755); err != nil {
		return nil, fmt.Errorf("create trash folder: %w", err)
	}

	rec, err := r.store.Read(dir)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(trash, fmt.Sprintf("%s_%d", clientid.Sanitize(rec.Name), r.now().UnixMilli()))
	if err := os.Rename(dir, dest); err != nil {
		return nil, fmt.Errorf("move to trash: %w", err)
	}

	// Prune the name-level folder if this was its last date entry.
	decoded, err := clientid.Parse(id)
	if err == nil {
		parent := filepath.Join(r.base, decoded.Name)
		if remaining, readErr := os.ReadDir(parent); readErr == nil && len(remaining) == 0 {
			_ = os.Remove(parent)
		}
	}

	r.Invalidate()
	r.logger.Info("client moved to trash",
		logging.String(logging.FieldClientID, id),
		logging.String("moved_to", dest))
	return &DeleteResult{MovedTo: dest}, nil
}

// Duplicate creates a brand-new client from an existing one: fresh id and
// timestamp, every file of the three subfolders copied flat, the file list
// carried over, and copiedFrom stamped with the source id. When newName is
// empty the copy is named "<original> (copia)".
func (r *Registry) Duplicate(id, newName string) (*metadata.Record, error) {
	srcDir, err := r.requireDir(id)
	if err != nil {
		return nil, err
	}
	srcRec, err := r.store.Read(srcDir)
	if err != nil {
		return nil, err
	}

	copyName := newName
	if copyName == "" {
		copyName = srcRec.Name + " (copia)"
	}

	newRec, err := r.Create(copyName)
	if err != nil {
		return nil, err
	}
	newDir, err := r.ResolvePath(newRec.ID)
	if err != nil {
		return nil, err
	}

	for _, sub := range metadata.Subfolders {
		if err := fileutil.CopyDirFlat(filepath.Join(srcDir, sub), filepath.Join(newDir, sub)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", sub, err)
		}
	}

	updated, err := r.store.Update(newDir, func(rec *metadata.Record) error {
		rec.Files = append([]metadata.FileRecord{}, srcRec.Files...)
		rec.CopiedFrom = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Invalidate()
	r.logger.Info("client duplicated",
		logging.String("source_id", id),
		logging.String(logging.FieldClientID, updated.ID))
	return updated, nil
}

// AddFile appends a file record to the client's metadata, stamping addedAt.
// The stored record is returned.
func (r *Registry) AddFile(id string, file metadata.FileRecord) (*metadata.FileRecord, error) {
	dir, err := r.ResolvePath(id)
	if err != nil {
		return nil, err
	}
	file.AddedAt = r.now().UTC()
	_, err = r.store.Update(dir, func(rec *metadata.Record) error {
		rec.Files = append(rec.Files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Invalidate()
	return &file, nil
}
