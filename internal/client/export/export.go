// Package export renders the expense collection as CSV and delivers it to
// a local file or to object storage through a presigned URL. Export is a
// premium feature.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
	"github.com/dmitrijs2005/expensetracker/internal/filex"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
)

const ContentType = "text/csv; charset=utf-8"

var (
	ErrPremiumRequired = errors.New("export requires premium")
	ErrNoPresigner     = errors.New("upload is not available for this backend")
)

// WriteCSV writes the header and one line per row. Dates use the document
// timestamp format and amounts carry two decimals.
func WriteCSV(w io.Writer, rows []store.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(store.ExportColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			models.FormatTimestamp(r.Date),
			r.Description,
			models.FormatAmount(r.Amount),
			string(r.Category),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is the conventional export name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", now.UTC().Format("2006-01-02"))
}

// Source supplies the state to export.
type Source interface {
	Snapshot() store.Snapshot
}

// Putter uploads a body to a presigned URL.
type Putter interface {
	Put(ctx context.Context, url, contentType string, body []byte) error
}

type Option func(*Exporter)

func WithLogger(l logging.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithUpload enables Upload through p and u.
func WithUpload(p gateway.Presigner, u Putter) Option {
	return func(e *Exporter) {
		e.presigner = p
		e.putter = u
	}
}

type Exporter struct {
	src       Source
	presigner gateway.Presigner
	putter    Putter
	logger    logging.Logger
	now       func() time.Time
}

func New(src Source, opts ...Option) *Exporter {
	e := &Exporter{src: src, logger: logging.NopLogger{}, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With(logging.FieldModule, "export")
	return e
}

// render checks the premium gate and returns the file name and CSV body.
func (e *Exporter) render() (string, []byte, int, error) {
	snap := e.src.Snapshot()
	if !snap.Derived.Features.Export {
		return "", nil, 0, ErrPremiumRequired
	}

	rows := snap.ExportRows()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return "", nil, 0, fmt.Errorf("render csv: %w", err)
	}
	return FileName(e.now()), buf.Bytes(), len(rows), nil
}

// ToFile writes the export into dir and returns the full path.
func (e *Exporter) ToFile(ctx context.Context, dir string) (string, error) {
	name, data, n, err := e.render()
	if err != nil {
		return "", err
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path, err := filex.WriteFileAtomic(dir, name, data)
	if err != nil {
		return "", err
	}

	e.logger.Info(ctx, "export written", "path", path, logging.FieldCount, n)
	return path, nil
}

// Upload sends the export to object storage and returns the file name.
func (e *Exporter) Upload(ctx context.Context) (string, error) {
	if e.presigner == nil || e.putter == nil {
		return "", ErrNoPresigner
	}
	name, data, n, err := e.render()
	if err != nil {
		return "", err
	}

	url, err := e.presigner.PresignExport(ctx, name)
	if err != nil {
		return "", err
	}
	if err := e.putter.Put(ctx, url, ContentType, data); err != nil {
		e.logger.Error(ctx, "export upload failed", logging.FieldError, err)
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	e.logger.Info(ctx, "export uploaded", "file", name, logging.FieldCount, n)
	return name, nil
}
