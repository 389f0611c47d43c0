package plot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"

	"github.com/pivolan/analysis_server/domain/models"
)

// DefaultURLPrefix is where the HTTP API serves rendered charts.
const DefaultURLPrefix = "/api/analysis/chart"

// ErrNotApplicable marks a rule that matched but had nothing to draw.
var ErrNotApplicable = errors.New("nothing to draw")

type Options struct {
	ChartDir  string
	URLPrefix string
	// Font is used for every label. Nil selects the built-in font with ASCII transliteration.
	Font *truetype.Font
	// HTML also writes an interactive <id>_<kind>.html next to each PNG.
	HTML   bool
	Logger zerolog.Logger
}

// rule decides whether a chart kind applies to a table and prepares its data.
type rule struct {
	kind    models.ChartKind
	applies func(t *models.Table) bool
	prepare func(t *models.Table) (dataForGraph, error)
}

type attemptStatus string

const (
	attemptProduced attemptStatus = "produced"
	attemptSkipped  attemptStatus = "skipped"
	attemptFailed   attemptStatus = "failed"
)

type attemptResult struct {
	kind     models.ChartKind
	status   attemptStatus
	artifact models.ChartArtifact
	err      error
}

type Selector struct {
	opts    Options
	painter painter
	rules   []rule
}

func NewSelector(opts Options) *Selector {
	if opts.URLPrefix == "" {
		opts.URLPrefix = DefaultURLPrefix
	}
	return &Selector{
		opts:    opts,
		painter: newPainter(opts.Font),
		rules:   defaultRules(),
	}
}

func defaultRules() []rule {
	numeric := func(t *models.Table) []*models.Column { return t.ColumnsOfKind(models.ColumnNumeric) }
	categorical := func(t *models.Table) []*models.Column { return t.ColumnsOfKind(models.ColumnCategorical) }
	temporal := func(t *models.Table) []*models.Column { return t.ColumnsOfKind(models.ColumnTemporal) }

	return []rule{
		{
			kind:    models.ChartBar,
			applies: func(t *models.Table) bool { return len(numeric(t)) >= 1 },
			prepare: func(t *models.Table) (dataForGraph, error) {
				col := numeric(t)[0]
				values := col.PresentNumbers()
				if len(values) == 0 {
					return nil, ErrNotApplicable
				}
				return NewDataHistogramForGraph(values, histogramBins, col.Name, col.Name+" distribution")
			},
		},
		{
			kind:    models.ChartPie,
			applies: func(t *models.Table) bool { return len(categorical(t)) >= 1 },
			prepare: func(t *models.Table) (dataForGraph, error) {
				col := categorical(t)[0]
				d := NewDataCategoriesForGraph(col, pieTopCategories, col.Name+" proportions")
				if d.lenXValues() == 0 {
					return nil, ErrNotApplicable
				}
				return d, nil
			},
		},
		{
			kind:    models.ChartScatter,
			applies: func(t *models.Table) bool { return len(numeric(t)) >= 2 },
			prepare: func(t *models.Table) (dataForGraph, error) {
				cols := numeric(t)
				d := NewDataScatterForGraph(cols[0], cols[1], cols[0].Name+" vs "+cols[1].Name)
				if d.lenXValues() == 0 {
					return nil, ErrNotApplicable
				}
				return d, nil
			},
		},
		{
			kind:    models.ChartHeatmap,
			applies: func(t *models.Table) bool { return len(numeric(t)) >= 3 },
			prepare: func(t *models.Table) (dataForGraph, error) {
				return NewDataHeatmapForGraph(numeric(t), "correlation heatmap"), nil
			},
		},
		{
			kind: models.ChartLine,
			applies: func(t *models.Table) bool {
				return len(temporal(t)) >= 1 && len(numeric(t)) >= 1
			},
			prepare: func(t *models.Table) (dataForGraph, error) {
				value := numeric(t)[0]
				d := NewDataDateForGraph(temporal(t)[0], value, value.Name+" time series")
				if d.lenXValues() == 0 {
					return nil, ErrNotApplicable
				}
				return d, nil
			},
		},
	}
}

// Generate runs every rule in order and returns the charts that were written.
// A failing rule is logged and never stops the others.
func (s *Selector) Generate(table *models.Table, id string) []models.ChartArtifact {
	artifacts := []models.ChartArtifact{}
	for _, r := range s.rules {
		res := s.attempt(r, table, id)
		switch res.status {
		case attemptProduced:
			artifacts = append(artifacts, res.artifact)
		case attemptFailed:
			s.opts.Logger.Error().Err(res.err).
				Str("file_id", id).
				Str("chart_type", string(res.kind)).
				Msg("chart rendering failed")
		default:
			s.opts.Logger.Debug().
				Str("file_id", id).
				Str("chart_type", string(res.kind)).
				Msg("chart skipped")
		}
	}
	return artifacts
}

func (s *Selector) attempt(r rule, table *models.Table, id string) (res attemptResult) {
	res = attemptResult{kind: r.kind, status: attemptSkipped}
	defer func() {
		if rec := recover(); rec != nil {
			res.status = attemptFailed
			res.err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
		}
	}()

	if !r.applies(table) {
		return res
	}
	data, err := r.prepare(table)
	if errors.Is(err, ErrNotApplicable) {
		return res
	}
	if err != nil {
		res.status, res.err = attemptFailed, err
		return res
	}

	png, err := data.drawPNG(s.painter)
	if err != nil {
		res.status, res.err = attemptFailed, err
		return res
	}
	if err := os.WriteFile(s.ChartPath(id, r.kind, ".png"), png, 0o644); err != nil {
		res.status, res.err = attemptFailed, err
		return res
	}
	if s.opts.HTML {
		s.writeHTML(data, id)
	}

	res.status = attemptProduced
	res.artifact = models.ChartArtifact{
		ChartType: r.kind,
		Title:     data.GetNameGraph(),
		URL:       fmt.Sprintf("%s/%s/%s", s.opts.URLPrefix, id, r.kind),
	}
	return res
}

// writeHTML never fails the attempt; the PNG is already on disk.
func (s *Selector) writeHTML(data dataForGraph, id string) {
	page, err := data.drawHTML()
	if err == nil {
		err = os.WriteFile(s.ChartPath(id, data.Kind(), ".html"), page, 0o644)
	}
	if err != nil {
		s.opts.Logger.Warn().Err(err).
			Str("file_id", id).
			Str("chart_type", string(data.Kind())).
			Msg("interactive chart not written")
	}
}

func (s *Selector) ChartPath(id string, kind models.ChartKind, ext string) string {
	return filepath.Join(s.opts.ChartDir, ChartFileName(id, kind, ext))
}

// ChartFileName is <id>_<kind><ext>, e.g. 3f2c..._bar.png.
func ChartFileName(id string, kind models.ChartKind, ext string) string {
	return fmt.Sprintf("%s_%s%s", id, kind, ext)
}
