package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/portfolio/pkg/analysis"
)

// AnalysisRepository хранит историю анализов резюме (resume_analyses).
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

type analysisScores struct {
	Overall int `json:"overall"`
}

func (r *AnalysisRepository) Append(ctx context.Context, e analysis.HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.AnalyzedAt.IsZero() {
		e.AnalyzedAt = time.Now().UTC()
	}
	if e.RecommendedSkills == nil {
		e.RecommendedSkills = []string{}
	}
	scores, err := json.Marshal(analysisScores{Overall: e.Score})
	if err != nil {
		return err
	}
	strengths, err := marshalList(e.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := marshalList(e.Weaknesses)
	if err != nil {
		return err
	}
	skills, err := marshalList(e.IdentifiedSkills)
	if err != nil {
		return err
	}
	recommended, err := marshalList(e.RecommendedSkills)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO resume_analyses (id, user_id, resume_text, analysis_scores, strengths, weaknesses, identified_skills, recommended_skills, analyzed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, e.ID, e.UserID, e.ResumeText, scores, strengths, weaknesses, skills, recommended, e.AnalyzedAt)
	return err
}

func (r *AnalysisRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM resume_analyses WHERE user_id = $1`, userID)
	return err
}
