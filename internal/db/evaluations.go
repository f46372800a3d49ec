package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-scorer/internal/types"
)

// DefaultListLimit caps ListEvaluations when no limit is given.
const DefaultListLimit = 100

// EvaluationRow is a stored evaluation summary
type EvaluationRow struct {
	ID            uuid.UUID `json:"id"`
	ResumeID      string    `json:"resume_id"`
	CandidateName string    `json:"candidate_name"`
	FinalScore    float64   `json:"final_score"`
	Model         string    `json:"model"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SaveEvaluation stores a report keyed by its resume ID. Re-scoring the same
// resume replaces the previous row.
func (db *DB) SaveEvaluation(ctx context.Context, r *types.ScoreReport) error {
	if r == nil {
		return errors.New("no report to save")
	}
	if r.ResumeID == "" {
		return errors.New("report has no resume id")
	}
	content, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	evaluatedAt := r.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO evaluations (id, resume_id, candidate_name, open_source, self_projects, production,
		                          technical_skills, bonus, deductions, final_score, model, report, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (resume_id) DO UPDATE SET
		     candidate_name = EXCLUDED.candidate_name,
		     open_source = EXCLUDED.open_source,
		     self_projects = EXCLUDED.self_projects,
		     production = EXCLUDED.production,
		     technical_skills = EXCLUDED.technical_skills,
		     bonus = EXCLUDED.bonus,
		     deductions = EXCLUDED.deductions,
		     final_score = EXCLUDED.final_score,
		     model = EXCLUDED.model,
		     report = EXCLUDED.report,
		     evaluated_at = EXCLUDED.evaluated_at,
		     updated_at = NOW()`,
		uuid.New(), r.ResumeID, r.CandidateName,
		r.Scores.OpenSource.Score, r.Scores.SelfProjects.Score, r.Scores.Production.Score,
		r.Scores.TechnicalSkills.Score, r.BonusPoints.Total, r.Deductions.Total, r.FinalScore,
		r.Model, content, evaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation %s: %w", r.ResumeID, err)
	}
	return nil
}

// GetEvaluation returns the stored report for a resume, or nil if none exists.
func (db *DB) GetEvaluation(ctx context.Context, resumeID string) (*types.ScoreReport, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT report FROM evaluations WHERE resume_id = $1`,
		resumeID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation %s: %w", resumeID, err)
	}

	var r types.ScoreReport
	if err := json.Unmarshal(content, &r); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", resumeID, err)
	}
	return &r, nil
}

// ListEvaluations returns stored evaluations, best final score first.
func (db *DB) ListEvaluations(ctx context.Context, limit int) ([]EvaluationRow, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, candidate_name, final_score, model, evaluated_at, created_at, updated_at
		 FROM evaluations
		 ORDER BY final_score DESC, evaluated_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var out []EvaluationRow
	for rows.Next() {
		var e EvaluationRow
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.CandidateName, &e.FinalScore, &e.Model,
			&e.EvaluatedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return out, nil
}

// DeleteEvaluation removes a stored evaluation. It reports whether a row existed.
func (db *DB) DeleteEvaluation(ctx context.Context, resumeID string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM evaluations WHERE resume_id = $1`, resumeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete evaluation %s: %w", resumeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Reports converts rows into minimal score reports for ranking.
func Reports(rows []EvaluationRow) []*types.ScoreReport {
	out := make([]*types.ScoreReport, len(rows))
	for i, r := range rows {
		out[i] = &types.ScoreReport{
			ResumeID:      r.ResumeID,
			CandidateName: r.CandidateName,
			FinalScore:    r.FinalScore,
			Model:         r.Model,
			EvaluatedAt:   r.EvaluatedAt,
		}
	}
	return out
}
