package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KashifMalik777/ml-ids/config"
	"github.com/KashifMalik777/ml-ids/parser/files"
	"github.com/KashifMalik777/ml-ids/pkg/artifact"
	"github.com/KashifMalik777/ml-ids/pkg/label"
	"github.com/KashifMalik777/ml-ids/pkg/sanitize"
	"github.com/KashifMalik777/ml-ids/pkg/schema"
	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/KashifMalik777/ml-ids/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type (
	//Pipeline prepares a single training dataset from the configured sources
	Pipeline struct {
		conf *config.Config
		log  *log.Logger
		out  io.Writer

		// state handed from one stage to the next
		sources []files.Source
		loaded  []*files.LoadedFile
		tables  []*table.Table
		current *table.Table
	}
)

//New creates a pipeline for the given configuration
func New(conf *config.Config, logger *log.Logger) *Pipeline {
	return &Pipeline{
		conf: conf,
		log:  logger,
		out:  os.Stdout,
	}
}

//SetOutput redirects the progress messages printed for the user
func (p *Pipeline) SetOutput(w io.Writer) {
	p.out = w
}

//Run executes every stage in order. The report is returned even when a
//stage fails and holds the counts gathered up to that point.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:      uuid.New().String(),
		Version:    p.conf.S.Version,
		Started:    time.Now(),
		OutputPath: p.conf.S.Pipeline.OutputPath,
	}
	defer func() {
		report.Duration = time.Since(report.Started)
	}()

	steps := []struct {
		stage Stage
		run   func(context.Context, *Report) error
	}{
		{Discover, p.discover},
		{Load, p.load},
		{Normalize, p.normalize},
		{Unify, p.unify},
		{Sanitize, p.sanitize},
		{Consolidate, p.consolidate},
		{VerifyFinal, p.verify},
		{Persist, p.persist},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return report, &StageError{Stage: step.stage, Err: err}
		}

		start := time.Now()
		p.log.WithFields(log.Fields{
			"run_id": report.RunID,
			"stage":  step.stage.String(),
		}).Debug("Starting stage")

		if err := step.run(ctx, report); err != nil {
			p.log.WithFields(log.Fields{
				"run_id": report.RunID,
				"stage":  step.stage.String(),
				"error":  err.Error(),
			}).Error("Pipeline stage failed")
			return report, &StageError{Stage: step.stage, Err: err}
		}

		elapsed := time.Since(start)
		report.Completed = append(report.Completed, StageTiming{Stage: step.stage, Duration: elapsed})
		p.log.WithFields(log.Fields{
			"run_id":   report.RunID,
			"stage":    step.stage.String(),
			"duration": elapsed.String(),
		}).Info("Finished stage")
	}

	return report, nil
}

func (p *Pipeline) discover(ctx context.Context, report *Report) error {
	fmt.Fprintln(p.out, "\t[-] Finding input files ...")

	configured := make([]files.Source, 0, len(p.conf.R.Pipeline.Sources))
	for _, src := range p.conf.R.Pipeline.Sources {
		configured = append(configured, files.Source{Path: src.Path, Encodings: src.Encodings})
	}

	var skipped []files.SkippedFile
	p.sources, skipped = files.GatherSourceFiles(configured, p.log)
	report.FilesDiscovered = len(p.sources)
	report.FilesSkipped = append(report.FilesSkipped, skipped...)

	for _, skip := range skipped {
		fmt.Fprintf(p.out, "\t[!] Skipping %s: %s\n", skip.Path, skip.Reason())
	}

	if len(p.sources) == 0 {
		return ErrEmptyInput
	}
	return nil
}

func (p *Pipeline) load(ctx context.Context, report *Report) error {
	var skipped []files.SkippedFile
	p.loaded, skipped = files.LoadFiles(ctx, p.sources, files.LoadOptions{
		Threads:  p.conf.S.Pipeline.LoadThreads,
		Progress: p.out,
	}, p.log)

	if err := ctx.Err(); err != nil {
		return err
	}

	report.FilesSkipped = append(report.FilesSkipped, skipped...)
	for _, skip := range skipped {
		fmt.Fprintf(p.out, "\t[!] Skipping %s: %s\n", skip.Path, skip.Reason())
	}

	for _, file := range p.loaded {
		report.FilesLoaded = append(report.FilesLoaded, file.Path)
		report.RowsLoaded += file.Table.NumRows()
	}

	if len(p.loaded) == 0 {
		return ErrEmptyInput
	}

	fmt.Fprintf(p.out, "\t[-] Loaded %d rows from %d files\n", report.RowsLoaded, len(p.loaded))
	return nil
}

func (p *Pipeline) normalize(ctx context.Context, report *Report) error {
	fmt.Fprintln(p.out, "\t[-] Normalizing column names ...")

	p.tables = make([]*table.Table, 0, len(p.loaded))
	for _, file := range p.loaded {
		normalized, collisions, err := schema.NormalizeColumns(file.Table, p.conf.R.Pipeline.CollisionPolicy)
		for _, c := range collisions {
			report.Collisions = append(report.Collisions, FileCollision{Path: file.Path, Collision: c})
			p.log.WithFields(log.Fields{
				"file":      file.Path,
				"canonical": c.Canonical,
				"kept":      c.Kept,
				"dropped":   c.Dropped,
			}).Warn("Column names collide after normalization")
		}
		if err != nil {
			return fmt.Errorf("%s: %w", file.Path, err)
		}
		p.tables = append(p.tables, normalized)
	}
	// the raw tables are not used past this point
	p.loaded = nil
	return nil
}

func (p *Pipeline) unify(ctx context.Context, report *Report) error {
	fmt.Fprintln(p.out, "\t[-] Unifying schemas ...")

	labelColumn := p.conf.S.Pipeline.LabelColumn
	unified, res, err := schema.Unify(p.tables, p.conf.S.Pipeline.PreferredFeatures, labelColumn)
	report.Unify = res
	if err != nil {
		return err
	}
	p.tables = nil

	if !util.StringInSlice(labelColumn, res.FinalFeatures) {
		return fmt.Errorf("%w: %q", ErrNoLabelColumn, labelColumn)
	}

	if res.CoercedCells > 0 {
		p.log.WithFields(log.Fields{
			"cells": res.CoercedCells,
		}).Warn("Non numeric feature values were treated as missing")
	}

	p.log.WithFields(log.Fields{
		"common_columns":  res.CommonColumns,
		"final_features":  len(res.FinalFeatures),
		"dropped_columns": res.TotalDroppedColumns(),
		"rows":            res.Rows,
	}).Info("Unified input schemas")

	p.current = unified
	return nil
}

func (p *Pipeline) sanitize(ctx context.Context, report *Report) error {
	fmt.Fprintln(p.out, "\t[-] Removing non-finite, missing, and duplicate rows ...")

	cleaned, res := sanitize.Sanitize(p.current)
	report.Sanitize = res
	p.log.WithFields(log.Fields{
		"rows_in":        res.RowsIn,
		"infinite_cells": res.InfiniteCells,
		"missing_rows":   res.MissingRows,
		"duplicate_rows": res.DuplicateRows,
		"rows_out":       res.RowsOut,
	}).Info("Sanitized unified table")

	p.current = cleaned
	return nil
}

func (p *Pipeline) consolidate(ctx context.Context, report *Report) error {
	fmt.Fprintln(p.out, "\t[-] Consolidating attack labels ...")

	// rows with a missing label were already dropped by the sanitizer
	labeled, res, err := label.Consolidate(p.current, p.conf.S.Pipeline.LabelColumn, label.MissingAsUnknown)
	if err != nil {
		return err
	}
	report.Labels = res

	fields := log.Fields{}
	for cat, n := range res.Counts {
		fields[cat.String()] = n
	}
	p.log.WithFields(fields).Info("Consolidated labels")

	p.current = labeled
	return nil
}

func (p *Pipeline) verify(ctx context.Context, report *Report) error {
	verified, res := sanitize.VerifyFinite(p.current, p.conf.S.Pipeline.RatioColumns)
	report.Verify = res
	if res.DroppedRows > 0 {
		p.log.WithFields(log.Fields{
			"columns": res.Checked,
			"cells":   res.NonFiniteCells,
			"rows":    res.DroppedRows,
		}).Warn("Dropped rows with non-finite ratio values after consolidation")
	}

	report.RemainingMissing, report.RemainingInfinite = verified.CountNonFinite()
	p.current = verified
	return nil
}

func (p *Pipeline) persist(ctx context.Context, report *Report) error {
	path := p.conf.S.Pipeline.OutputPath
	fmt.Fprintf(p.out, "\t[-] Writing %d rows to %s ...\n", p.current.NumRows(), path)

	err := artifact.Write(path, p.current, artifact.Metadata{
		artifact.RunIDKey:   report.RunID,
		artifact.VersionKey: p.conf.S.Version,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	report.RowsWritten = p.current.NumRows()
	p.log.WithFields(log.Fields{
		"path":         path,
		"rows":         report.RowsWritten,
		"current_time": time.Now().Format(util.TimeFormat),
	}).Info("Wrote prepared dataset")
	return nil
}
