package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/cache"
	"github.com/jonathan/resume-scorer/internal/document"
	"github.com/jonathan/resume-scorer/internal/github"
	"github.com/jonathan/resume-scorer/internal/source"
	"github.com/jonathan/resume-scorer/internal/types"
)

type fakeStages struct {
	convertCalls, extractCalls, githubCalls, websiteCalls, evaluateCalls int

	convertErr  error
	extractErr  error
	githubErr   error
	websiteErr  error
	evaluateErr error

	lastEvalInput *types.EnrichedResume
}

func (f *fakeStages) Convert(_ context.Context, _ []byte) (*document.Document, error) {
	f.convertCalls++
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return &document.Document{Pages: 1, Blocks: []document.Block{{Type: document.BlockParagraph, Page: 1, Text: "Jane"}}}, nil
}

func (f *fakeStages) Extract(_ context.Context, _ *document.Document) (*types.SectionSet, error) {
	f.extractCalls++
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return &types.SectionSet{Basics: &types.Basics{Name: "Jane Doe"}}, nil
}

func (f *fakeStages) Assemble(set *types.SectionSet) *types.Resume {
	return &types.Resume{Basics: set.Basics}
}

func (f *fakeStages) Enrich(_ context.Context, _ *types.Resume) (*types.GitHubData, error) {
	f.githubCalls++
	if f.githubErr != nil {
		return nil, f.githubErr
	}
	return &types.GitHubData{Profile: &types.GitHubProfile{Username: "jane"}, EligibleCount: 1,
		Projects: []types.Repository{{Name: "kv"}}}, nil
}

func (f *fakeStages) Evaluate(_ context.Context, in *types.EnrichedResume) (*types.ScoreReport, error) {
	f.evaluateCalls++
	f.lastEvalInput = in
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	return &types.ScoreReport{CandidateName: in.Resume.CandidateName(), FinalScore: 42}, nil
}

type fakeWebsite struct{ f *fakeStages }

func (w fakeWebsite) Enrich(_ context.Context, _ *types.Resume, gh *types.GitHubData) (*types.WebsiteData, error) {
	w.f.websiteCalls++
	if w.f.websiteErr != nil {
		return nil, w.f.websiteErr
	}
	return &types.WebsiteData{URL: "https://jane.dev", Title: "Jane"}, nil
}

func (f *fakeStages) stages() Stages {
	return Stages{
		Converter: f,
		Extractor: f,
		Assembler: f,
		GitHub:    f,
		Website:   fakeWebsite{f},
		Evaluator: f,
	}
}

func input() *source.Input {
	return &source.Input{Ref: "/tmp/resumes/jane_doe.pdf", Data: []byte("%PDF-1.4")}
}

func TestRun(t *testing.T) {
	f := &fakeStages{}
	var events []ProgressEvent
	p := New(f.stages(), nil, Options{OnProgress: func(e ProgressEvent) { events = append(events, e) }})

	res, err := p.Run(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, "jane_doe", res.ResumeID)
	assert.Equal(t, "jane_doe", res.Report.ResumeID)
	assert.Equal(t, "Jane Doe", res.Report.CandidateName)
	assert.Equal(t, "jane_doe", res.Document.Source)
	assert.NotNil(t, res.GitHub)
	assert.NotNil(t, res.Website)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Cached)

	require.NotNil(t, f.lastEvalInput)
	assert.Same(t, res.GitHub, f.lastEvalInput.GitHub)
	assert.Same(t, res.Website, f.lastEvalInput.Website)

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, res.RunID.String(), e.RunID)
	}
	assert.Equal(t, []string{StageConvert, StageExtract, StageAssemble, StageGitHub, StageWebsite, StageEvaluate}, steps)
}

func TestRun_CacheShortCircuits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	f := &fakeStages{}
	p := New(f.stages(), nil, Options{Cache: c})

	first, err := p.Run(context.Background(), input())
	require.NoError(t, err)
	assert.Empty(t, first.Cached)

	second, err := p.Run(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, 1, f.convertCalls)
	assert.Equal(t, 1, f.extractCalls)
	assert.Equal(t, 1, f.githubCalls)
	assert.Equal(t, 1, f.websiteCalls)
	assert.Equal(t, 2, f.evaluateCalls, "evaluation always runs")
	assert.Equal(t, []string{StageConvert, StageExtract, StageAssemble, StageGitHub, StageWebsite}, second.Cached)
	assert.Equal(t, first.Resume, second.Resume)
	assert.Equal(t, "kv", second.GitHub.Projects[0].Name)
}

func TestRun_DocumentCacheSkipsConverterOnly(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	doc := &document.Document{Pages: 1, Blocks: []document.Block{{Type: document.BlockParagraph, Text: "cached"}}}
	require.NoError(t, cache.SetJSON(context.Background(), c, "document:jane_doe", doc, 0))

	f := &fakeStages{}
	res, err := New(f.stages(), nil, Options{Cache: c}).Run(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, 0, f.convertCalls)
	assert.Equal(t, 1, f.extractCalls)
	assert.Equal(t, []string{StageConvert}, res.Cached)
	assert.Equal(t, "cached", res.Document.Blocks[0].Text)

	var stored types.Resume
	require.NoError(t, cache.GetJSON(context.Background(), c, "resume:jane_doe", &stored))
	assert.Equal(t, "Jane Doe", stored.Basics.Name)
}

func TestRun_EnrichmentWarningsAreNonFatal(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	f := &fakeStages{
		githubErr:  &github.EnrichmentWarning{Message: "no username", Cause: github.ErrNoUsername},
		websiteErr: errors.New("HTTP status 500"),
	}

	res, err := New(f.stages(), nil, Options{Cache: c}).Run(context.Background(), input())
	require.NoError(t, err)

	assert.Nil(t, res.GitHub)
	assert.Nil(t, res.Website)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "no GitHub username")
	assert.Contains(t, res.Warnings[1], "website enrichment skipped")
	assert.Equal(t, 1, f.evaluateCalls)

	_, err = c.Get(context.Background(), "github:jane_doe")
	assert.ErrorIs(t, err, cache.ErrNotFound, "warnings are not cached")
}

func TestRun_StageErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*fakeStages)
		stage string
	}{
		{"convert", func(f *fakeStages) { f.convertErr = &document.ExtractionError{Message: "bad", Cause: document.ErrUnreadable} }, StageConvert},
		{"extract", func(f *fakeStages) { f.extractErr = boom }, StageExtract},
		{"github", func(f *fakeStages) { f.githubErr = boom }, StageGitHub},
		{"evaluate", func(f *fakeStages) { f.evaluateErr = boom }, StageEvaluate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeStages{}
			tt.setup(f)

			_, err := New(f.stages(), nil, Options{}).Run(context.Background(), input())
			require.Error(t, err)

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Contains(t, err.Error(), tt.stage+" stage failed")
		})
	}

	f := &fakeStages{convertErr: &document.ExtractionError{Message: "bad", Cause: document.ErrEncrypted}}
	_, err := New(f.stages(), nil, Options{}).Run(context.Background(), input())
	var extractErr *document.ExtractionError
	assert.ErrorAs(t, err, &extractErr)
	assert.ErrorIs(t, err, document.ErrEncrypted)
	assert.Equal(t, 0, f.extractCalls)
}

func TestRun_WebsiteCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeStages{}
	stages := f.stages()
	stages.Website = cancelingWebsite{cancel}

	_, err := New(stages, nil, Options{}).Run(ctx, input())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageWebsite, stageErr.Stage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.evaluateCalls)
}

type cancelingWebsite struct{ cancel context.CancelFunc }

func (w cancelingWebsite) Enrich(ctx context.Context, _ *types.Resume, _ *types.GitHubData) (*types.WebsiteData, error) {
	w.cancel()
	return nil, ctx.Err()
}

func TestRun_OptionalStages(t *testing.T) {
	f := &fakeStages{}
	stages := f.stages()
	stages.GitHub = nil
	stages.Website = nil

	res, err := New(stages, nil, Options{}).Run(context.Background(), input())
	require.NoError(t, err)
	assert.Nil(t, res.GitHub)
	assert.Nil(t, res.Website)
	assert.Equal(t, 0, f.githubCalls)
}

func TestRun_EmptyInput(t *testing.T) {
	_, err := New((&fakeStages{}).stages(), nil, Options{}).Run(context.Background(), &source.Input{Ref: "x.pdf"})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageLoad, stageErr.Stage)
}

func TestRunWithProgress(t *testing.T) {
	f := &fakeStages{}
	var base, extra int
	p := New(f.stages(), nil, Options{OnProgress: func(ProgressEvent) { base++ }})

	_, err := p.RunWithProgress(context.Background(), input(), func(ProgressEvent) { extra++ })
	require.NoError(t, err)
	assert.Equal(t, 6, base)
	assert.Equal(t, 6, extra)

	// the extra callback does not stick to the pipeline
	_, err = p.Run(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, 12, base)
	assert.Equal(t, 6, extra)
}
