// Package evaluation scores an enriched resume against the fixed rubric
// with a single model call.
package evaluation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/logger"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Evaluator scores candidates
type Evaluator struct {
	client llm.Client
	log    *zap.Logger
	now    func() time.Time
}

// New returns an evaluator. A nil logger disables logging.
func New(client llm.Client, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{client: client, log: log, now: time.Now}
}

// Evaluate scores the enriched resume. Output that does not match the
// rubric schema or breaks its bounds fails with *EvaluationError.
func (e *Evaluator) Evaluate(ctx context.Context, in *types.EnrichedResume) (*types.ScoreReport, error) {
	if in == nil || in.Resume == nil {
		return nil, &EvaluationError{Message: "no resume to evaluate"}
	}

	prompt, err := prompts.Render(prompts.EvaluationFile, "evaluate", map[string]string{
		"Candidate": RenderCandidate(in),
	})
	if err != nil {
		return nil, &EvaluationError{Message: "failed to build prompt", Cause: err}
	}

	model := e.client.GetModel(llm.TierAdvanced)
	log := e.log.With(zap.String("model", model))
	log.Debug("evaluating candidate", zap.Int("prompt_chars", len(prompt)))

	reply, err := e.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &EvaluationError{Message: "model call failed", Cause: err}
	}

	report, err := Parse(reply)
	if err != nil {
		log.Warn("rubric output rejected",
			zap.Error(err),
			zap.String("reply", logger.Truncate(reply, 500)))
		return nil, err
	}

	if applyScoringRules(&report.Scores) {
		log.Info("open source score capped", zap.Float64("cap", openSourceCap))
	}
	finalize(report)
	if len(report.KeyStrengths) == 0 {
		report.KeyStrengths = deriveStrengths(&report.Scores)
	}
	if len(report.AreasForImprovement) == 0 {
		report.AreasForImprovement = deriveImprovements(&report.Scores)
	}

	report.CandidateName = in.Resume.CandidateName()
	report.Model = model
	report.EvaluatedAt = e.now().UTC()

	if err := report.Validate(); err != nil {
		return nil, &EvaluationError{Message: "score out of bounds", Reply: reply, Cause: err}
	}

	log.Info("candidate evaluated",
		zap.String("candidate", report.CandidateName),
		zap.Float64("base_score", report.BaseScore),
		zap.Float64("final_score", report.FinalScore))
	return report, nil
}

// Parse validates a raw rubric reply against the score schema and struct
// bounds and decodes it. Base and final scores are not computed.
func Parse(reply string) (*types.ScoreReport, error) {
	cleaned := llm.CleanJSONBlock(reply)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &EvaluationError{Message: "empty model reply", Reply: reply}
	}
	if err := schemas.Validate(schemas.ScoreReport, []byte(cleaned)); err != nil {
		return nil, &EvaluationError{Message: "reply does not match rubric schema", Reply: reply, Cause: err}
	}

	var report types.ScoreReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, &EvaluationError{Message: "failed to decode reply", Reply: reply, Cause: err}
	}
	// ignore any totals the model computed itself
	report.BaseScore, report.FinalScore = 0, 0
	if err := report.Validate(); err != nil {
		return nil, &EvaluationError{Message: "score out of bounds", Reply: reply, Cause: err}
	}
	return &report, nil
}
