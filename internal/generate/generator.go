// Package generate drives index generation for a documentation project: it
// resolves the declared chapters, reads them, parses them concurrently and
// assigns section ids across the whole index.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/ajitpratap0/docmeta/internal/chapters"
	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metrics"
)

// ErrNoChapters is returned when the project declares no chapters.
var ErrNoChapters = errors.New("project declares no chapters")

// Report summarizes one generation run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Chapters  int           `json:"chapters" yaml:"chapters"`
	Sections  int           `json:"sections" yaml:"sections"`
	Skipped   []Skipped     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Warnings  []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Generator reads chapter files from a filesystem and builds the index.
type Generator struct {
	fs     afero.Fs
	srcDir string
	opts   Options
	logger *slog.Logger
}

// NewGenerator creates a Generator resolving chapter paths under srcDir.
func NewGenerator(fs afero.Fs, srcDir string, opts Options, logger *slog.Logger) *Generator {
	return &Generator{
		fs:     fs,
		srcDir: srcDir,
		opts:   opts,
		logger: logger,
	}
}

// ReadProject reads the chapter declaration from the project file at path.
func (g *Generator) ReadProject(path string) (*chapters.Project, error) {
	f, err := g.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening project file: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := chapters.ReadProject(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p, nil
}

// Generate builds the index of every chapter in list. Missing or unreadable
// chapter files are skipped and reported.
func (g *Generator) Generate(ctx context.Context, list chapters.List) (*meta.Meta, *Report, error) {
	if list.Len() == 0 {
		return nil, nil, ErrNoChapters
	}

	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	logger := g.logger.With("run_id", report.RunID)

	declared := list.Flat()
	var sources []Source
	for i, path := range list.Paths(g.srcDir) {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		name := ChapterName(declared[i])
		data, err := afero.ReadFile(g.fs, path)
		if err != nil {
			logger.Warn("skipping unreadable chapter", "chapter", name, "file", path, "error", err)
			report.Skipped = append(report.Skipped, Skipped{Chapter: name, Filename: path, Reason: err.Error()})
			metrics.Inc(metrics.ChaptersSkipped)
			continue
		}
		sources = append(sources, Source{Name: name, Filename: path, Text: string(data)})
	}

	res, err := BuildIndex(ctx, sources, g.opts, logger)
	if err != nil {
		return nil, nil, err
	}

	report.Skipped = append(report.Skipped, res.Skipped...)
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}
	report.Chapters = res.Meta.Len()
	report.Sections = res.Meta.Count()
	report.Duration = time.Since(report.StartedAt)

	logger.Info("generated metadata",
		"chapters", report.Chapters,
		"sections", report.Sections,
		"skipped", len(report.Skipped),
		"warnings", len(report.Warnings),
	)
	return res.Meta, report, nil
}

// ChapterName names a chapter by its declared path without extension.
func ChapterName(declared string) string {
	p := filepath.ToSlash(filepath.Clean(declared))
	return strings.TrimSuffix(p, filepath.Ext(p))
}
