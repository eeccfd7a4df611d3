package portfolio

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/portfolio/pkg/analysis"
	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/auth"
	"github.com/artem13815/portfolio/pkg/events"
	"github.com/artem13815/portfolio/pkg/lock"
	"github.com/artem13815/portfolio/pkg/logging"
	"github.com/artem13815/portfolio/pkg/resume"
	"github.com/artem13815/portfolio/pkg/storage/files"
)

// ErrNoResumeFile is returned when a record has no stored upload.
var ErrNoResumeFile = errors.New("no resume file stored for this portfolio")

// SubmitRequest carries exactly one of File or Text. ClaimedEmail is the
// email the caller says the resume belongs to; it may be empty.
type SubmitRequest struct {
	File         *resume.Document
	Text         string
	ClaimedEmail string
}

func (r SubmitRequest) hasFile() bool { return r.File != nil && len(r.File.Data) > 0 }

// UseCase - сценарии загрузки резюме и чтения портфолио.
type UseCase interface {
	// Submit extracts, validates, assesses and stores a resume as the
	// authoritative portfolio of its owner.
	Submit(ctx context.Context, req SubmitRequest) (Record, error)
	// Reanalyze discards everything stored for the claimed identity and
	// runs Submit from scratch. ClaimedEmail is required.
	Reanalyze(ctx context.Context, req SubmitRequest) (Record, error)
	Get(ctx context.Context, email string) (Record, error)
	// OpenResume opens the stored upload of the authoritative record.
	// The caller closes the file.
	OpenResume(ctx context.Context, email string) (Record, *os.File, error)
}

// ProfileExtractor is satisfied by *resume.ProfileExtractor.
type ProfileExtractor interface {
	Extract(ctx context.Context, text string) (resume.Extraction, error)
}

// Deps are the collaborators of the portfolio service. History, Locker,
// Events and Validator are optional.
type Deps struct {
	Identities auth.IdentityFinder
	Portfolios Repository
	History    analysis.HistoryRepository
	Extractor  ProfileExtractor
	Validator  *resume.Validator
	Assessor   analysis.UseCase
	Files      *files.Store
	Locker     lock.Locker
	Events     events.Publisher
	Log        logrus.FieldLogger
}

type service struct {
	identities auth.IdentityFinder
	repo       Repository
	history    analysis.HistoryRepository
	extractor  ProfileExtractor
	validator  *resume.Validator
	assessor   analysis.UseCase
	files      *files.Store
	locker     lock.Locker
	events     events.Publisher
	log        logrus.FieldLogger
}

func NewService(d Deps) UseCase {
	s := &service{
		identities: d.Identities,
		repo:       d.Portfolios,
		history:    d.History,
		extractor:  d.Extractor,
		validator:  d.Validator,
		assessor:   d.Assessor,
		files:      d.Files,
		locker:     d.Locker,
		events:     d.Events,
		log:        d.Log,
	}
	if s.validator == nil {
		s.validator = resume.NewValidator(nil)
	}
	if s.locker == nil {
		s.locker = lock.NewMemory()
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (Record, error) {
	text, err := prepareText(req)
	if err != nil {
		return Record{}, err
	}
	claimed := strings.TrimSpace(req.ClaimedEmail)
	if claimed == "" {
		return s.run(ctx, req, text, claim{})
	}
	c, err := s.lookupClaim(ctx, claimed)
	if err != nil {
		return Record{}, err
	}
	return s.run(ctx, req, text, c)
}

func (s *service) Reanalyze(ctx context.Context, req SubmitRequest) (Record, error) {
	claimed := strings.TrimSpace(req.ClaimedEmail)
	if claimed == "" {
		return Record{}, apperr.InvalidInput("userEmail is required to reanalyze a resume")
	}
	// Reject bad input before anything is deleted.
	text, err := prepareText(req)
	if err != nil {
		return Record{}, err
	}
	c, err := s.lookupClaim(ctx, claimed)
	if err != nil {
		return Record{}, err
	}
	if c.account != nil {
		if err := s.reset(ctx, *c.account); err != nil {
			return Record{}, err
		}
	}
	return s.run(ctx, req, text, c)
}

func (s *service) Get(ctx context.Context, email string) (Record, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Record{}, apperr.InvalidInput("email is required")
	}
	rec, err := s.repo.FindLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, apperr.Wrap(apperr.KindInternal, "load portfolio", err)
	}
	return rec, nil
}

func (s *service) OpenResume(ctx context.Context, email string) (Record, *os.File, error) {
	rec, err := s.Get(ctx, email)
	if err != nil {
		return Record{}, nil, err
	}
	if !rec.HasResumeFile() || s.files == nil {
		return rec, nil, ErrNoResumeFile
	}
	f, err := s.files.Open(rec.ResumeFilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rec, nil, ErrNoResumeFile
		}
		return rec, nil, apperr.Wrap(apperr.KindInternal, "open resume file", err)
	}
	return rec, f, nil
}

func prepareText(req SubmitRequest) (string, error) {
	var doc *resume.Document
	if req.hasFile() {
		doc = req.File
	}
	text, err := resume.ExtractText(doc, req.Text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.InvalidInput("empty resume content")
	}
	return text, nil
}

// claim is the identity named by the caller. An email that matches no
// account is kept in unknown so the name rules still run before the run
// fails with IdentityNotFound.
type claim struct {
	account *auth.User
	unknown string
}

func (s *service) lookupClaim(ctx context.Context, claimed string) (claim, error) {
	u, err := s.findIdentity(ctx, claimed)
	switch {
	case err == nil:
		// persist the email exactly as claimed
		u.Email = claimed
		return claim{account: &u}, nil
	case apperr.KindOf(err) == apperr.KindIdentityNotFound:
		return claim{unknown: claimed}, nil
	}
	return claim{}, err
}

func (s *service) findIdentity(ctx context.Context, email string) (auth.User, error) {
	u, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return auth.User{}, apperr.IdentityNotFound(email)
		}
		return auth.User{}, apperr.Wrap(apperr.KindInternal, "lookup identity", err)
	}
	return u, nil
}

// run extracts the profile and the assessment concurrently, resolves the
// owner and reconciles the result with what is stored. A rejected profile
// cancels the assessment.
func (s *service) run(ctx context.Context, req SubmitRequest, text string, c claim) (Record, error) {
	start := time.Now()
	account := c.account

	var (
		extraction resume.Extraction
		assessed   analysis.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		x, err := s.extractor.Extract(gctx, text)
		if err != nil {
			return err
		}
		switch {
		case !x.Fallback:
			var acc *resume.Account
			if account != nil {
				acc = &resume.Account{Email: account.Email, Name: account.Name}
			}
			if x.Profile, err = s.validator.Validate(x.Profile, text, acc); err != nil {
				return err
			}
		case account != nil:
			x.Profile.Email = account.Email
		}
		extraction = x
		return nil
	})
	if c.unknown == "" {
		g.Go(func() error {
			r, err := s.assessor.Assess(gctx, text)
			if err != nil {
				return err
			}
			assessed = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if apperr.KindOf(err) == apperr.KindValidationRejected {
			s.log.WithError(err).Info("resume rejected")
		}
		return Record{}, err
	}
	if c.unknown != "" {
		return Record{}, apperr.IdentityNotFound(c.unknown)
	}

	if account == nil {
		email := strings.TrimSpace(extraction.Profile.Email)
		if email == "" {
			return Record{}, apperr.New(apperr.KindIdentityNotFound, "no email found in the resume and none was provided")
		}
		u, err := s.findIdentity(ctx, email)
		if err != nil {
			return Record{}, err
		}
		account = &u
	}

	var doc *resume.Document
	if req.hasFile() {
		doc = req.File
	}
	rec, err := s.reconcile(ctx, *account, extraction.Profile, assessed.Assessment, doc, text)
	if err != nil {
		return Record{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":             account.ID,
		"record_id":           rec.ID,
		"profile_fallback":    extraction.Fallback,
		"assessment_fallback": assessed.Fallback,
		"score":               rec.Score,
		"took":                time.Since(start).String(),
	}).Info("resume processed")
	return rec, nil
}

// reset removes the stored portfolio, its files and the analysis history.
func (s *service) reset(ctx context.Context, account auth.User) error {
	unlock, err := s.locker.Lock(ctx, lockKey(account.Email))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "acquire identity lock", err)
	}
	defer unlock()

	paths, err := s.repo.DeleteByEmail(ctx, account.Email)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete portfolio", err)
	}
	if s.files != nil {
		for _, p := range paths {
			if err := s.files.Remove(p); err != nil {
				s.log.WithError(err).WithField("path", p).Warn("failed to remove resume file")
			}
		}
	}
	if s.history != nil {
		if err := s.history.DeleteByUser(ctx, account.ID); err != nil {
			return apperr.Wrap(apperr.KindInternal, "delete analysis history", err)
		}
	}
	s.log.WithFields(logrus.Fields{"user_id": account.ID, "files": len(paths)}).Info("portfolio reset for reanalysis")
	return nil
}

func lockKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
