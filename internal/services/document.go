package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"csvedit/internal/csvio"
	"csvedit/internal/logger"
	"csvedit/internal/models"
	"csvedit/internal/timing"
)

// DocumentService handles reading and writing documents on disk
type DocumentService struct {
	dialect csvio.Dialect
	logger  logger.Logger
	timings *timing.Tracker
}

// NewDocumentService creates a new document service
func NewDocumentService(dialect csvio.Dialect, log logger.Logger) *DocumentService {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &DocumentService{
		dialect: dialect,
		logger:  log,
		timings: timing.NewTracker(),
	}
}

// Dialect returns the on-disk format used by the service
func (ds *DocumentService) Dialect() csvio.Dialect {
	return ds.dialect
}

// Timings returns the durations of loads, saves, imports and exports,
// failed ones included
func (ds *DocumentService) Timings() *timing.Tracker {
	return ds.timings
}

// Load reads a CSV file into a new document
func (ds *DocumentService) Load(ctx context.Context, path string) (*models.TabularDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := ds.timings.Start("load")

	file, err := os.Open(path)
	if err != nil {
		stop()
		return nil, models.NewIOError("open", path, err)
	}
	defer file.Close()

	doc, err := ds.Read(ctx, file, path)
	if err != nil {
		stop()
		return nil, err
	}

	ds.logger.Debug("DocumentService", "csv loaded", map[string]interface{}{
		"path":        path,
		"rows":        doc.RowCount(),
		"columns":     doc.ColumnCount(),
		"duration_ms": stop().Milliseconds(),
	})

	return doc, nil
}

// Read parses CSV from r. source is recorded on the document.
func (ds *DocumentService) Read(ctx context.Context, r io.Reader, source string) (*models.TabularDocument, error) {
	headers, rows, err := csvio.ReadTable(r, ds.dialect)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return models.NewDocument(headers, rows, source), nil
}

// Save writes doc to path as CSV. The file is replaced atomically so a
// failed write leaves any existing file untouched.
func (ds *DocumentService) Save(ctx context.Context, path string, doc *models.TabularDocument) error {
	if doc == nil {
		return models.ErrNoDocument
	}

	stop := ds.timings.Start("save")

	err := writeAtomic(ctx, path, func(w io.Writer) error {
		return ds.Write(w, doc)
	})
	if err != nil {
		stop()
		return err
	}

	ds.logger.Debug("DocumentService", "csv saved", map[string]interface{}{
		"path":        path,
		"rows":        doc.RowCount(),
		"duration_ms": stop().Milliseconds(),
	})
	return nil
}

// Write serialises doc as CSV to w
func (ds *DocumentService) Write(w io.Writer, doc *models.TabularDocument) error {
	return csvio.WriteTable(w, ds.dialect, doc.Headers(), doc.Rows())
}

// writeAtomic writes through a temporary file in the destination directory
// and renames it over path once fill succeeds.
func writeAtomic(ctx context.Context, path string, fill func(io.Writer) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return models.NewIOError("create", path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		return models.NewIOError("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return models.NewIOError("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		return models.NewIOError("close", path, err)
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return models.NewIOError("chmod", path, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return models.NewIOError("rename", path, err)
	}
	return nil
}
