// Package pipeline runs the scoring stages in order: convert, extract,
// assemble, enrich, evaluate.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/cache"
	"github.com/jonathan/resume-scorer/internal/document"
	"github.com/jonathan/resume-scorer/internal/github"
	"github.com/jonathan/resume-scorer/internal/source"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Converter turns PDF bytes into a document
type Converter interface {
	Convert(ctx context.Context, data []byte) (*document.Document, error)
}

// Extractor turns a document into section records
type Extractor interface {
	Extract(ctx context.Context, doc *document.Document) (*types.SectionSet, error)
}

// Assembler merges section records into a resume
type Assembler interface {
	Assemble(set *types.SectionSet) *types.Resume
}

// GitHubEnricher fetches and selects GitHub data. Non-fatal failures are
// returned as *github.EnrichmentWarning.
type GitHubEnricher interface {
	Enrich(ctx context.Context, resume *types.Resume) (*types.GitHubData, error)
}

// WebsiteEnricher summarizes the candidate's site. Every error is non-fatal.
type WebsiteEnricher interface {
	Enrich(ctx context.Context, resume *types.Resume, gh *types.GitHubData) (*types.WebsiteData, error)
}

// Evaluator scores an enriched resume
type Evaluator interface {
	Evaluate(ctx context.Context, in *types.EnrichedResume) (*types.ScoreReport, error)
}

// Stages holds the stage implementations. GitHub and Website may be nil to
// skip enrichment.
type Stages struct {
	Converter Converter
	Extractor Extractor
	Assembler Assembler
	GitHub    GitHubEnricher
	Website   WebsiteEnricher
	Evaluator Evaluator
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds run-wide settings that used to be global toggles.
type Options struct {
	// Cache stores intermediate results keyed by input name; nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	// OnProgress receives one event per completed stage.
	OnProgress ProgressCallback
}

// Result holds every stage output of one run
type Result struct {
	RunID    uuid.UUID          `json:"run_id"`
	ResumeID string             `json:"resume_id"`
	Document *document.Document `json:"document,omitempty"`
	Resume   *types.Resume      `json:"resume"`
	GitHub   *types.GitHubData  `json:"github,omitempty"`
	Website  *types.WebsiteData `json:"website,omitempty"`
	Report   *types.ScoreReport `json:"report"`
	Warnings []string           `json:"warnings,omitempty"`
	Cached   []string           `json:"cached_stages,omitempty"`
}

// Pipeline runs the stages sequentially
type Pipeline struct {
	stages Stages
	opts   Options
	log    *zap.Logger
}

// New returns a pipeline. A nil logger disables logging.
func New(stages Stages, log *zap.Logger, opts Options) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{stages: stages, opts: opts, log: log}
}

// RunWithProgress is Run with an extra progress callback for this run only.
// The configured OnProgress still fires.
func (p *Pipeline) RunWithProgress(ctx context.Context, in *source.Input, cb ProgressCallback) (*Result, error) {
	if cb == nil {
		return p.Run(ctx, in)
	}
	run := *p
	if base := p.opts.OnProgress; base != nil {
		run.opts.OnProgress = func(e ProgressEvent) {
			base(e)
			cb(e)
		}
	} else {
		run.opts.OnProgress = cb
	}
	return run.Run(ctx, in)
}

// Run scores one resume. Any stage failure aborts the run with a
// *StageError; enrichment warnings are recorded on the result instead.
func (p *Pipeline) Run(ctx context.Context, in *source.Input) (*Result, error) {
	if in == nil || len(in.Data) == 0 {
		return nil, &StageError{Stage: StageLoad, Err: errors.New("empty input")}
	}

	res := &Result{RunID: uuid.New(), ResumeID: cache.BaseName(in.Ref)}
	log := p.log.With(zap.String("run_id", res.RunID.String()), zap.String("resume_id", res.ResumeID))
	log.Info("pipeline started", zap.String("input", in.Ref))
	started := time.Now()

	resume, err := p.resume(ctx, log, in, res)
	if err != nil {
		return nil, err
	}
	res.Resume = resume

	if err := p.enrichGitHub(ctx, log, in.Ref, res); err != nil {
		return nil, err
	}
	if err := p.enrichWebsite(ctx, log, in.Ref, res); err != nil {
		return nil, err
	}

	report, err := p.stages.Evaluator.Evaluate(ctx, &types.EnrichedResume{
		Resume:  res.Resume,
		GitHub:  res.GitHub,
		Website: res.Website,
	})
	if err != nil {
		return nil, &StageError{Stage: StageEvaluate, Err: err}
	}
	report.ResumeID = res.ResumeID
	res.Report = report
	p.emit(res, StageEvaluate, "candidate evaluated", false)

	log.Info("pipeline finished",
		zap.Float64("final_score", report.FinalScore),
		zap.Strings("cached_stages", res.Cached),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", time.Since(started)))
	return res, nil
}

// resume produces the assembled resume, starting from the latest cached
// artifact: the resume itself, then the converted document.
func (p *Pipeline) resume(ctx context.Context, log *zap.Logger, in *source.Input, res *Result) (*types.Resume, error) {
	var resume types.Resume
	if p.load(ctx, log, cache.KindResume, in.Ref, &resume) {
		res.Cached = append(res.Cached, StageConvert, StageExtract, StageAssemble)
		p.emit(res, StageAssemble, "resume loaded from cache", true)
		return &resume, nil
	}

	var doc document.Document
	if p.load(ctx, log, cache.KindDocument, in.Ref, &doc) {
		res.Cached = append(res.Cached, StageConvert)
		res.Document = &doc
		p.emit(res, StageConvert, "document loaded from cache", true)
	} else {
		converted, err := p.stages.Converter.Convert(ctx, in.Data)
		if err != nil {
			return nil, &StageError{Stage: StageConvert, Err: err}
		}
		if converted.Source == "" {
			converted.Source = res.ResumeID
		}
		res.Document = converted
		p.store(ctx, log, cache.KindDocument, in.Ref, converted)
		p.emit(res, StageConvert, "document converted", false)
	}

	sections, err := p.stages.Extractor.Extract(ctx, res.Document)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	p.emit(res, StageExtract, "sections extracted", false)

	assembled := p.stages.Assembler.Assemble(sections)
	p.store(ctx, log, cache.KindResume, in.Ref, assembled)
	p.emit(res, StageAssemble, "resume assembled", false)
	return assembled, nil
}

func (p *Pipeline) enrichGitHub(ctx context.Context, log *zap.Logger, ref string, res *Result) error {
	if p.stages.GitHub == nil {
		return nil
	}
	var gh types.GitHubData
	if p.load(ctx, log, cache.KindGitHub, ref, &gh) {
		res.GitHub = &gh
		res.Cached = append(res.Cached, StageGitHub)
		p.emit(res, StageGitHub, "github data loaded from cache", true)
		return nil
	}

	data, err := p.stages.GitHub.Enrich(ctx, res.Resume)
	if err != nil {
		if github.IsWarning(err) && ctx.Err() == nil {
			log.Warn("github enrichment skipped", zap.Error(err))
			res.Warnings = append(res.Warnings, err.Error())
			p.emit(res, StageGitHub, "github enrichment skipped", false)
			return nil
		}
		return &StageError{Stage: StageGitHub, Err: err}
	}
	res.GitHub = data
	p.store(ctx, log, cache.KindGitHub, ref, data)
	p.emit(res, StageGitHub, "github data fetched", false)
	return nil
}

func (p *Pipeline) enrichWebsite(ctx context.Context, log *zap.Logger, ref string, res *Result) error {
	if p.stages.Website == nil {
		return nil
	}
	var site types.WebsiteData
	if p.load(ctx, log, cache.KindWebsite, ref, &site) {
		res.Website = &site
		res.Cached = append(res.Cached, StageWebsite)
		p.emit(res, StageWebsite, "website loaded from cache", true)
		return nil
	}

	data, err := p.stages.Website.Enrich(ctx, res.Resume, res.GitHub)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &StageError{Stage: StageWebsite, Err: ctxErr}
		}
		log.Warn("website enrichment skipped", zap.Error(err))
		res.Warnings = append(res.Warnings, "website enrichment skipped: "+err.Error())
		return nil
	}
	res.Website = data
	p.store(ctx, log, cache.KindWebsite, ref, data)
	p.emit(res, StageWebsite, "website summarized", false)
	return nil
}

// load reads a cached artifact. Misses and unreadable entries both report
// false; the stage then runs normally.
func (p *Pipeline) load(ctx context.Context, log *zap.Logger, kind, ref string, v any) bool {
	if p.opts.Cache == nil {
		return false
	}
	err := cache.GetJSON(ctx, p.opts.Cache, cache.Key(kind, ref), v)
	switch {
	case err == nil:
		log.Debug("cache hit", zap.String("kind", kind))
		return true
	case errors.Is(err, cache.ErrNotFound):
		log.Debug("cache miss", zap.String("kind", kind))
	default:
		log.Warn("cache read failed", zap.String("kind", kind), zap.Error(err))
	}
	return false
}

// store writes an artifact. Failures only cost a future cache hit.
func (p *Pipeline) store(ctx context.Context, log *zap.Logger, kind, ref string, v any) {
	if p.opts.Cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, p.opts.Cache, cache.Key(kind, ref), v, p.opts.CacheTTL); err != nil {
		log.Warn("cache write failed", zap.String("kind", kind), zap.Error(err))
	}
}

// emit calls the progress callback if configured
func (p *Pipeline) emit(res *Result, step, message string, cached bool) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   res.RunID.String(),
			Cached:  cached,
		})
	}
}
