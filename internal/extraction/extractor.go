// Package extraction turns converted resume text into typed section records by
// prompting a language model once per section.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/document"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/logger"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// DefaultMaxInputChars caps the resume text, in characters, sent with each
// section prompt.
const DefaultMaxInputChars = 24000

// Options configures the extractor
type Options struct {
	// Sections to extract, in order. Defaults to types.Sections().
	Sections      []string
	MaxInputChars int
}

// Extractor prompts the model for each resume section
type Extractor struct {
	client llm.Client
	log    *zap.Logger
	opts   Options
}

// New returns an extractor. A nil logger disables logging.
func New(client llm.Client, log *zap.Logger, opts Options) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Sections) == 0 {
		opts.Sections = types.Sections()
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	return &Extractor{client: client, log: log, opts: opts}
}

// Extract runs every configured section against the document's Markdown.
// The first section that fails aborts extraction.
func (e *Extractor) Extract(ctx context.Context, doc *document.Document) (*types.SectionSet, error) {
	text := doc.Markdown()
	if n := utf8.RuneCountInString(text); n > e.opts.MaxInputChars {
		e.log.Warn("resume text truncated",
			zap.Int("chars", n),
			zap.Int("limit", e.opts.MaxInputChars))
		text = truncateRunes(text, e.opts.MaxInputChars)
	}

	set := &types.SectionSet{}
	for _, section := range e.opts.Sections {
		if err := e.ExtractSection(ctx, section, text, set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// ExtractSection prompts for one section and decodes the validated reply into set.
// A reply that fails validation is retried once with the problems quoted back.
func (e *Extractor) ExtractSection(ctx context.Context, section, text string, set *types.SectionSet) error {
	prompt, err := prompts.Render(prompts.SectionsFile, section, map[string]string{"ResumeText": text})
	if err != nil {
		return fmt.Errorf("section %s: %w", section, err)
	}

	log := e.log.With(zap.String("section", section), zap.String("model", e.client.GetModel(llm.TierStandard)))
	log.Debug("extracting section", zap.Int("prompt_chars", len(prompt)))

	reply, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return &APICallError{Section: section, Message: "failed to generate section", Cause: err}
	}

	payload, verr := validateReply(section, reply)
	if verr != nil {
		problems := problemSummary(verr)
		log.Warn("section reply rejected, retrying",
			zap.String("problems", logger.Truncate(problems, 300)),
			zap.String("reply", logger.Truncate(reply, 300)))

		retryPrompt, err := prompts.Render(prompts.SectionsFile, "retry", map[string]string{
			"Section":       section,
			"Problems":      problems,
			"PreviousReply": describe(reply, 2000),
			"Instructions":  prompt,
		})
		if err != nil {
			return fmt.Errorf("section %s: %w", section, err)
		}

		reply, err = e.client.GenerateJSON(ctx, retryPrompt, llm.TierStandard)
		if err != nil {
			return &APICallError{Section: section, Message: "failed to generate corrected section", Cause: err}
		}
		payload, verr = validateReply(section, reply)
		if verr != nil {
			return &SchemaMismatchError{Section: section, Problems: problemSummary(verr), Cause: verr}
		}
	}

	if err := json.Unmarshal(payload, set); err != nil {
		return &SchemaMismatchError{Section: section, Problems: err.Error(), Cause: err}
	}
	log.Info("section extracted", zap.Int("bytes", len(payload)))
	return nil
}

// validateReply repairs the reply shape and checks it against the section schema.
func validateReply(section, reply string) ([]byte, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, errors.New("empty reply")
	}
	payload := repairShape(section, llm.CleanJSONBlock(reply))
	if err := schemas.Validate(section, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func problemSummary(err error) string {
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		return verr.Summary()
	}
	return "- " + err.Error()
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
