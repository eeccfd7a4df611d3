package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/portfolio/pkg/portfolio"
)

// PortfolioRepository implements portfolio.Repository. Nested lists are kept
// as independent JSON text columns.
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

const portfolioColumns = `id, user_id, full_name, headline, about, location, email, phone, linkedin, github, website,
	skills_json, experience_json, education_json, projects_json,
	resume_score, resume_summary, strengths_json, weaknesses_json, market_outlook, job_recommendations_json,
	resume_file_path, created_at, updated_at`

// Named (non-blank) records win over newer unnamed ones.
const selectLatestPortfolio = `
SELECT ` + portfolioColumns + `
FROM portfolios
WHERE lower(email) = lower($1)
ORDER BY (btrim(full_name) <> '') DESC, updated_at DESC
LIMIT 1`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PortfolioRepository) FindLatestByEmail(ctx context.Context, email string) (portfolio.Record, error) {
	return findLatest(ctx, r.pool, email)
}

func findLatest(ctx context.Context, q rowQuerier, email string) (portfolio.Record, error) {
	rec, err := scanPortfolio(q.QueryRow(ctx, selectLatestPortfolio, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return portfolio.Record{}, portfolio.ErrNotFound
	}
	return rec, err
}

func (r *PortfolioRepository) Upsert(ctx context.Context, email string, apply portfolio.ApplyFunc) (portfolio.Record, bool, error) {
	email = strings.TrimSpace(email)
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return portfolio.Record{}, false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Writers of one identity queue here until the transaction ends.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext(lower($1::text)))`, email); err != nil {
		return portfolio.Record{}, false, fmt.Errorf("lock identity: %w", err)
	}

	var existing *portfolio.Record
	current, err := findLatest(ctx, tx, email)
	switch {
	case err == nil:
		existing = &current
	case !errors.Is(err, portfolio.ErrNotFound):
		return portfolio.Record{}, false, fmt.Errorf("load portfolio: %w", err)
	}

	rec, err := apply(existing)
	if err != nil {
		return portfolio.Record{}, false, err
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	args, err := portfolioArgs(rec)
	if err != nil {
		return portfolio.Record{}, false, err
	}
	if existing != nil {
		_, err = tx.Exec(ctx, `
UPDATE portfolios SET
	user_id = $2, full_name = $3, headline = $4, about = $5, location = $6, email = $7,
	phone = $8, linkedin = $9, github = $10, website = $11,
	skills_json = $12, experience_json = $13, education_json = $14, projects_json = $15,
	resume_score = $16, resume_summary = $17, strengths_json = $18, weaknesses_json = $19,
	market_outlook = $20, job_recommendations_json = $21, resume_file_path = $22,
	created_at = $23, updated_at = $24
WHERE id = $1
`, args...)
	} else {
		_, err = tx.Exec(ctx, `
INSERT INTO portfolios (`+portfolioColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
`, args...)
	}
	if err != nil {
		return portfolio.Record{}, false, fmt.Errorf("save portfolio: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return portfolio.Record{}, false, fmt.Errorf("commit portfolio: %w", err)
	}
	return rec, existing == nil, nil
}

func (r *PortfolioRepository) DeleteByEmail(ctx context.Context, email string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
DELETE FROM portfolios WHERE lower(email) = lower($1)
RETURNING resume_file_path
`, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path *string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		if path != nil && *path != "" {
			paths = append(paths, *path)
		}
	}
	return paths, rows.Err()
}

func portfolioArgs(rec portfolio.Record) ([]any, error) {
	lists := []any{
		rec.Skills, rec.Experience, rec.Education, rec.Projects,
		rec.Strengths, rec.Weaknesses, rec.JobRecommendations,
	}
	encoded := make([]string, len(lists))
	for i, l := range lists {
		b, err := marshalList(l)
		if err != nil {
			return nil, fmt.Errorf("encode portfolio: %w", err)
		}
		encoded[i] = string(b)
	}
	var filePath *string
	if rec.ResumeFilePath != "" {
		filePath = &rec.ResumeFilePath
	}
	return []any{
		rec.ID, rec.UserID, rec.FullName, rec.Headline, rec.About, rec.Location, rec.Email,
		rec.Phone, rec.LinkedIn, rec.GitHub, rec.Website,
		encoded[0], encoded[1], encoded[2], encoded[3],
		rec.Score, rec.Summary, encoded[4], encoded[5],
		rec.MarketOutlook, encoded[6], filePath,
		rec.CreatedAt, rec.UpdatedAt,
	}, nil
}

func scanPortfolio(row pgx.Row) (portfolio.Record, error) {
	var (
		rec                                       portfolio.Record
		skills, experience, education, projects   string
		strengths, weaknesses, jobRecommendations string
		filePath                                  *string
		created, updated                          time.Time
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.FullName, &rec.Headline, &rec.About, &rec.Location, &rec.Email,
		&rec.Phone, &rec.LinkedIn, &rec.GitHub, &rec.Website,
		&skills, &experience, &education, &projects,
		&rec.Score, &rec.Summary, &strengths, &weaknesses, &rec.MarketOutlook, &jobRecommendations,
		&filePath, &created, &updated,
	)
	if err != nil {
		return portfolio.Record{}, err
	}
	if err := unmarshalColumns(
		column{"skills_json", []byte(skills), &rec.Skills},
		column{"experience_json", []byte(experience), &rec.Experience},
		column{"education_json", []byte(education), &rec.Education},
		column{"projects_json", []byte(projects), &rec.Projects},
		column{"strengths_json", []byte(strengths), &rec.Strengths},
		column{"weaknesses_json", []byte(weaknesses), &rec.Weaknesses},
		column{"job_recommendations_json", []byte(jobRecommendations), &rec.JobRecommendations},
	); err != nil {
		return portfolio.Record{}, err
	}
	if filePath != nil {
		rec.ResumeFilePath = *filePath
	}
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	return rec, nil
}
