package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/portfolio/pkg/resume"
)

// Assessment - качественная и количественная оценка резюме.
type Assessment struct {
	Score              int                 `json:"score"`
	Summary            string              `json:"summary"`
	Strengths          []string            `json:"strengths"`
	Weaknesses         []string            `json:"weaknesses"`
	MarketOutlook      string              `json:"marketOutlook"`
	JobRecommendations []JobRecommendation `json:"jobRecommendations"`
}

type JobRecommendation struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	MatchReason string `json:"matchReason"`
}

// HistoryEntry is one stored analysis run for a user.
type HistoryEntry struct {
	ID                uuid.UUID      `json:"id"`
	UserID            uuid.UUID      `json:"userId"`
	ResumeText        string         `json:"resumeText"`
	Score             int            `json:"score"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	IdentifiedSkills  []resume.Skill `json:"identifiedSkills"`
	RecommendedSkills []string       `json:"recommendedSkills"`
	AnalyzedAt        time.Time      `json:"analyzedAt"`
}

// HistoryRepository - порт для сохранения истории анализов.
type HistoryRepository interface {
	Append(ctx context.Context, e HistoryEntry) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
