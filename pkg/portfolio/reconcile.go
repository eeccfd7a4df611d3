package portfolio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/artem13815/portfolio/pkg/analysis"
	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/auth"
	"github.com/artem13815/portfolio/pkg/events"
	"github.com/artem13815/portfolio/pkg/resume"
	"github.com/artem13815/portfolio/pkg/storage/files"
)

// reconcile makes profile and assessment the authoritative record of
// account. An uploaded file replaces the stored one only if the record is
// saved; otherwise the previous file is restored.
func (s *service) reconcile(ctx context.Context, account auth.User, profile resume.Profile, a analysis.Assessment, doc *resume.Document, text string) (Record, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(account.Email))
	if err != nil {
		return Record{}, apperr.Wrap(apperr.KindInternal, "acquire identity lock", err)
	}
	defer unlock()

	var swap *files.Swap
	if doc != nil && s.files != nil {
		swap, err = s.files.Stage(StoredFileName(account.ID, *doc), doc.Data)
		if err != nil {
			return Record{}, apperr.Wrap(apperr.KindInternal, "store resume file", err)
		}
	}

	profile.Email = account.Email
	var previous string
	rec, created, err := s.repo.Upsert(ctx, account.Email, func(existing *Record) (Record, error) {
		now := time.Now().UTC()
		next := Record{
			ID:         uuid.New(),
			UserID:     account.ID,
			Profile:    profile,
			Assessment: a,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if existing != nil {
			next.ID = existing.ID
			next.CreatedAt = existing.CreatedAt
			next.ResumeFilePath = existing.ResumeFilePath
			previous = existing.ResumeFilePath
		}
		if swap != nil {
			if err := swap.Commit(); err != nil {
				return Record{}, err
			}
			next.ResumeFilePath = swap.Name()
		}
		return next, nil
	})
	if err != nil {
		if swap != nil {
			if rbErr := swap.Rollback(); rbErr != nil {
				s.log.WithError(rbErr).Error("failed to restore previous resume file")
			}
		}
		return Record{}, apperr.Wrap(apperr.KindInternal, "save portfolio", err)
	}
	if swap != nil {
		if err := swap.Finalize(previous); err != nil {
			s.log.WithError(err).Warn("failed to clean up replaced resume file")
		}
	}

	s.appendHistory(ctx, rec, text)
	s.publish(ctx, rec, created)
	return rec, nil
}

// appendHistory is best effort: the record is already authoritative.
func (s *service) appendHistory(ctx context.Context, rec Record, text string) {
	if s.history == nil {
		return
	}
	entry := analysis.HistoryEntry{
		ID:                uuid.New(),
		UserID:            rec.UserID,
		ResumeText:        text,
		Score:             rec.Score,
		Strengths:         rec.Strengths,
		Weaknesses:        rec.Weaknesses,
		IdentifiedSkills:  rec.Skills,
		RecommendedSkills: []string{},
		AnalyzedAt:        rec.UpdatedAt,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithField("user_id", rec.UserID).Warn("failed to append analysis history")
	}
}

func (s *service) publish(ctx context.Context, rec Record, created bool) {
	err := s.events.PublishProfileUpdated(ctx, events.ProfileUpdated{
		RecordID:  rec.ID,
		UserID:    rec.UserID,
		Email:     rec.Email,
		Score:     rec.Score,
		Created:   created,
		UpdatedAt: rec.UpdatedAt,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"record_id": rec.ID}).WithError(err).Warn("failed to publish portfolio event")
	}
}

var extByMediaType = map[string]string{
	resume.MediaTypePDF:  ".pdf",
	resume.MediaTypeDOCX: ".docx",
	resume.MediaTypeHTML: ".html",
	"text/plain":         ".txt",
}

// StoredFileName is the stable name of an identity's resume file:
// <userID>_resume<ext>, with ext taken from the upload name or media type.
func StoredFileName(userID uuid.UUID, doc resume.Document) string {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if ext == "" || len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = extByMediaType[resume.DetectMediaType(doc)]
		if ext == "" {
			ext = ".bin"
		}
	}
	return fmt.Sprintf("%s_resume%s", userID, ext)
}
