// Package app orchestrates the medallion pipeline: bronze ingestion, the
// silver cleaning pass, and the two independent gold stages (statistics and
// NLP), finishing with the rendered clinical report.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"toypal/adapters/cleaning"
	"toypal/adapters/excel"
	"toypal/adapters/nlp"
	"toypal/adapters/postgres"
	"toypal/adapters/report"
	"toypal/adapters/stats/battery"
	"toypal/domain/core"
	"toypal/domain/run"
	"toypal/domain/study"
	"toypal/domain/verdict"
	"toypal/internal"
	"toypal/internal/config"
)

// Pipeline wires the adapters into runnable stages. Each stage reads its
// input artifact from disk, so stages can run individually or as one pass.
type Pipeline struct {
	cfg *config.Config
	log *internal.Logger

	// lastClean holds the counters from a Clean in this process, so a
	// same-process Stats can record bronze-level numbers in the manifest.
	// A standalone Stats only knows the silver table.
	lastClean *cleaning.Result
}

func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, log: internal.DefaultLogger}
}

// Clean runs bronze → silver: read the raw export, normalize it, persist the
// canonical table. The returned result carries the cleaning counters.
func (p *Pipeline) Clean(ctx context.Context) (*cleaning.Result, error) {
	raw, err := excel.NewDataReader(p.cfg.Paths.BronzeFile).ReadTable()
	if err != nil {
		return nil, err
	}

	res := cleaning.NewNormalizer().Normalize(raw)
	if err := report.WriteSilver(p.cfg.Paths.SilverFile, res.Dataset); err != nil {
		return nil, err
	}

	p.log.Info("silver layer written: %s (%d rows)", p.cfg.Paths.SilverFile, res.Dataset.Len())
	p.lastClean = res
	return res, nil
}

// Stats runs silver → gold statistics: execute the battery, persist the
// result table and run manifest, and mirror results to Postgres when a
// database is configured.
func (p *Pipeline) Stats(ctx context.Context) (*verdict.Table, error) {
	ds, err := p.loadSilver()
	if err != nil {
		return nil, err
	}

	manifest := run.NewManifest(p.cfg.Paths.BronzeFile)
	manifest.CleanRows = ds.Len()
	manifest.Participants = len(ds.Participants())
	if p.lastClean != nil {
		manifest.RawRows = p.lastClean.RawRows
		manifest.DroppedRows = p.lastClean.Dropped
	} else {
		manifest.RawRows = ds.Len()
	}

	b := battery.New()
	manifest.QueriesDefined = b.QueryCount()

	table := b.Run(ds)
	manifest.QueriesEmitted = len(table.Rows)
	manifest.Finish()

	if err := report.WriteResults(p.cfg.Paths.StatsFile, table); err != nil {
		return nil, err
	}
	if err := report.WriteManifest(p.cfg.Paths.ManifestFile, manifest); err != nil {
		return nil, err
	}

	if p.cfg.Database.Enabled {
		if err := p.mirrorToDatabase(ctx, manifest.RunID, table); err != nil {
			// The file artifacts are the system of record; a sink failure is
			// reported but does not fail the run.
			p.log.Warn("database mirror failed: %v", err)
		}
	}

	p.log.Info("gold statistics written: %s (%d/%d queries)",
		p.cfg.Paths.StatsFile, manifest.QueriesEmitted, manifest.QueriesDefined)
	return table, nil
}

// NLP runs silver → gold sentiment: score session notes and persist the
// sentiment and keyword-trend artifacts.
func (p *Pipeline) NLP(ctx context.Context) (*nlp.Analysis, error) {
	ds, err := p.loadSilver()
	if err != nil {
		return nil, err
	}

	analysis := nlp.NewEngine().Analyze(ds)
	if err := nlp.WriteSentiment(p.cfg.Paths.NLPFile, analysis); err != nil {
		return nil, err
	}
	if err := nlp.WriteTrends(p.cfg.Paths.KeywordsFile, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// Report renders the clinical summary HTML from the persisted gold
// artifacts plus summary metrics recomputed from silver.
func (p *Pipeline) Report(ctx context.Context) error {
	ds, err := p.loadSilver()
	if err != nil {
		return err
	}
	table, err := report.ReadResults(p.cfg.Paths.StatsFile)
	if err != nil {
		return err
	}
	manifest, err := report.ReadManifest(p.cfg.Paths.ManifestFile)
	if err != nil {
		return err
	}

	data := report.ReportData{
		Manifest:    *manifest,
		Executive:   BuildExecutive(ds),
		Perspective: BuildPerspective(ds),
		Results:     *table,
	}
	if err := report.WriteReport(p.cfg.Paths.ReportFile, data); err != nil {
		return err
	}
	p.log.Info("clinical report written: %s", p.cfg.Paths.ReportFile)
	return nil
}

// RunAll executes the full pipeline. The two gold stages are independent
// once silver exists, so they run concurrently.
func (p *Pipeline) RunAll(ctx context.Context) error {
	if _, err := p.Clean(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := p.Stats(gctx)
		return err
	})
	g.Go(func() error {
		_, err := p.NLP(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return p.Report(ctx)
}

// loadSilver reads the cleaned table back into a dataset. The silver file
// carries canonical headers, so normalization is a passthrough.
func (p *Pipeline) loadSilver() (*study.Dataset, error) {
	raw, err := excel.NewDataReader(p.cfg.Paths.SilverFile).ReadTable()
	if err != nil {
		return nil, err
	}
	return cleaning.NewNormalizer().Normalize(raw).Dataset, nil
}

func (p *Pipeline) mirrorToDatabase(ctx context.Context, runID core.RunID, table *verdict.Table) error {
	db, err := postgres.Connect(p.cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewResultRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Replace(ctx, runID, *table); err != nil {
		return err
	}

	stored, err := repo.LoadRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(stored.Rows) != len(table.Rows) {
		return fmt.Errorf("database mirror incomplete: stored %d of %d rows", len(stored.Rows), len(table.Rows))
	}
	p.log.Info("mirrored %d results to database (run %s)", len(stored.Rows), runID)
	return nil
}
