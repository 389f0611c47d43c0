package main

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/pivolan/analysis_server/domain/models"
	"github.com/pivolan/analysis_server/plot"
)

type ingestState string

const (
	stateReceived ingestState = "received"
	stateParsed   ingestState = "parsed"
	stateProfiled ingestState = "profiled"
	stateCharted  ingestState = "charted"
	stateReported ingestState = "reported"
	stateFailed   ingestState = "failed"
)

// Analyzer turns one upload into an AnalysisReport.
type Analyzer struct {
	storage  *Storage
	selector *plot.Selector
}

func NewAnalyzer(storage *Storage, selector *plot.Selector) *Analyzer {
	return &Analyzer{storage: storage, selector: selector}
}

// ingestion tracks a single upload; the upload file is removed exactly once, on entering stateFailed.
type ingestion struct {
	state      ingestState
	id         string
	fileName   string
	uploadPath string
	cleanup    func()

	table    *models.Table
	profiles []models.ColumnProfile
	charts   []models.ChartArtifact
	summary  string
	err      error
}

func (j *ingestion) step(next ingestState, fn func() error) {
	if j.state == stateFailed {
		return
	}
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: panic: %v\n%s", next, r, debug.Stack())
			}
		}()
		return fn()
	}()
	if err != nil {
		j.fail(err)
		return
	}
	j.state = next
}

func (j *ingestion) fail(err error) {
	if j.state == stateFailed {
		return
	}
	j.state = stateFailed
	j.err = err
	if j.cleanup != nil {
		j.cleanup()
	}
}

// Analyze unpacks, stores and analyzes an upload. Archives are unpacked in memory and
// the inner file must carry an allowed extension; the stored upload keeps the original bytes.
func (a *Analyzer) Analyze(ctx context.Context, fileName string, raw []byte) (*models.AnalysisReport, error) {
	logger := zerolog.Ctx(ctx)

	innerName, data, err := unpackArchive(fileName, raw)
	if err != nil {
		return nil, err
	}
	ext := fileExtension(innerName)
	if err := checkExtension(ext); err != nil {
		return nil, err
	}

	id := newFileID()
	path, err := a.storage.SaveUpload(id, fileExtension(fileName), raw)
	if err != nil {
		return nil, err
	}
	log := logger.With().Str("file_id", id).Str("file_name", fileName).Logger()

	job := &ingestion{
		state:      stateReceived,
		id:         id,
		fileName:   fileName,
		uploadPath: path,
	}
	job.cleanup = func() {
		if err := a.storage.RemoveUpload(path); err != nil {
			log.Error().Err(err).Msg("upload cleanup failed")
		}
	}

	job.step(stateParsed, func() error {
		table, err := parseFile(data, ext)
		if err != nil {
			return err
		}
		job.table = table
		return nil
	})
	job.step(stateProfiled, func() error {
		job.profiles = analyzeStatistics(job.table)
		return nil
	})
	job.step(stateCharted, func() error {
		job.charts = a.selector.Generate(job.table, id)
		return nil
	})
	job.step(stateReported, func() error {
		job.summary = generateSummary(summaryInputFor(job.table))
		return nil
	})

	if job.state == stateFailed {
		log.Warn().Err(job.err).Msg("analysis failed")
		return nil, job.err
	}
	log.Info().
		Int("rows", job.table.RowCount()).
		Int("columns", len(job.table.Columns)).
		Int("charts", len(job.charts)).
		Msg("analysis finished")
	return job.report(), nil
}

func (j *ingestion) report() *models.AnalysisReport {
	return &models.AnalysisReport{
		FileID:      j.id,
		FileName:    j.fileName,
		RowCount:    j.table.RowCount(),
		ColumnCount: len(j.table.Columns),
		Columns:     j.table.ColumnNames(),
		Statistics:  j.profiles,
		Charts:      j.charts,
		Summary:     j.summary,
	}
}
