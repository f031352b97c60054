package report

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"mechanicflow/internal/clientid"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/services"
)

// Progress reports archive generation advancement.
type Progress struct {
	Percent   int `json:"percent"`
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Result describes a generated report archive.
type Result struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Entries int    `json:"entries"`
}

// Generator builds report archives for client folders.
type Generator struct {
	store  *metadata.Store
	level  int
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator constructs a Generator with the given deflate level.
func NewGenerator(store *metadata.Store, level int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		store:  store,
		level:  level,
		logger: logging.NewComponentLogger(logger, "report"),
		now:    time.Now,
	}
}

type entry struct {
	source  string
	archive string
}

// Generate writes the report ZIP inside the client folder and returns its
// location and size. It fails when the folder holds neither processed videos
// nor photos.
func (g *Generator) Generate(ctx context.Context, clientDir string, progress func(Progress)) (*Result, error) {
	processedDir := filepath.Join(clientDir, metadata.SubfolderProcessed)
	photosDir := filepath.Join(clientDir, metadata.SubfolderPhotos)
	if !dirExists(processedDir) && !dirExists(photosDir) {
		return nil, services.Wrap(services.ErrNotFound, "report", "generate", "no processed videos or photos to archive", nil)
	}

	clientName := "Cliente"
	date := g.now().UTC().Format(clientid.DateFormat)
	if rec, err := g.store.Read(clientDir); err == nil {
		clientName = clientid.Sanitize(rec.Name)
		date = filepath.Base(clientDir)
	}

	entries := collectEntries(processedDir, "Videos")
	entries = append(entries, collectEntries(photosDir, "Fotos")...)
	sidecar := metadata.Path(clientDir)
	if _, err := os.Stat(sidecar); err == nil {
		entries = append(entries, entry{source: sidecar, archive: "resumen.json"})
	}

	zipName := fmt.Sprintf("Reporte_%s_%s.zip", clientName, date)
	zipPath := filepath.Join(clientDir, zipName)

	if err := g.writeArchive(ctx, zipPath, entries, progress); err != nil {
		// Leave no half-written archive behind.
		_ = os.Remove(zipPath)
		return nil, err
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	g.logger.Info("report generated",
		logging.String("archive", zipName),
		logging.Int("entries", len(entries)),
		logging.Int64("size_bytes", info.Size()))

	return &Result{Path: zipPath, Name: zipName, Size: info.Size(), Entries: len(entries)}, nil
}

func (g *Generator) writeArchive(ctx context.Context, zipPath string, entries []entry, progress func(Progress)) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	level := g.level
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	for i, ent := range entries {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return err
		}
		if err := addFile(zw, ent); err != nil {
			_ = zw.Close()
			return err
		}
		if progress != nil {
			processed := i + 1
			progress(Progress{
				Percent:   processed * 100 / len(entries),
				Processed: processed,
				Total:     len(entries),
			})
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, ent entry) error {
	info, err := os.Stat(ent.source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", ent.source, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("archive header: %w", err)
	}
	header.Name = ent.archive
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", ent.archive, err)
	}
	src, err := os.Open(ent.source)
	if err != nil {
		return fmt.Errorf("open %s: %w", ent.source, err)
	}
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write entry %s: %w", ent.archive, err)
	}
	return nil
}

// collectEntries lists the regular files directly inside dir, mapped under
// prefix in the archive.
func collectEntries(dir, prefix string) []entry {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	entries := make([]entry, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		entries = append(entries, entry{
			source:  filepath.Join(dir, item.Name()),
			archive: prefix + "/" + item.Name(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].archive < entries[j].archive })
	return entries
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
