package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/portfolio/pkg/analysis"
	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/auth"
	"github.com/artem13815/portfolio/pkg/health"
	"github.com/artem13815/portfolio/pkg/logging"
	"github.com/artem13815/portfolio/pkg/portfolio"
	"github.com/artem13815/portfolio/pkg/resume"
)

type fakePortfolios struct {
	lastReq portfolio.SubmitRequest
	result  portfolio.Record
	err     error
	file    string
}

func (f *fakePortfolios) Submit(_ context.Context, req portfolio.SubmitRequest) (portfolio.Record, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakePortfolios) Reanalyze(_ context.Context, req portfolio.SubmitRequest) (portfolio.Record, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakePortfolios) Get(context.Context, string) (portfolio.Record, error) {
	return f.result, f.err
}

func (f *fakePortfolios) OpenResume(context.Context, string) (portfolio.Record, *os.File, error) {
	if f.err != nil {
		return portfolio.Record{}, nil, f.err
	}
	file, err := os.Open(f.file)
	if err != nil {
		return portfolio.Record{}, nil, err
	}
	return f.result, file, nil
}

func newApp(svc portfolio.UseCase, maxBytes int64) *fiber.App {
	app := fiber.New()
	rh := NewResumeHandler(svc, logging.Discard(), maxBytes)
	ph := NewPortfolioHandler(svc, logging.Discard())
	app.Post("/resume/parse", rh.Parse)
	app.Post("/resume/reanalyze", rh.Reanalyze)
	app.Get("/portfolios/by-email", ph.GetByEmail)
	app.Get("/portfolios/by-email/resume", ph.DownloadResume)
	return app
}

func multipartRequest(t *testing.T, url string, fields map[string]string, fileName, fileBody string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileBody))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func janeRecord() portfolio.Record {
	return portfolio.Record{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Profile:    resume.Profile{FullName: "Jane Doe", Email: "jane@example.com"},
		Assessment: analysisScore(77),
	}
}

func TestParseUploadsFile(t *testing.T) {
	svc := &fakePortfolios{result: janeRecord()}
	app := newApp(svc, 1<<20)

	req := multipartRequest(t, "/resume/parse", map[string]string{"userEmail": "jane@example.com"}, "cv.pdf", "%PDF-1.4 body")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	p := body["portfolio"].(map[string]any)
	assert.Equal(t, "Jane Doe", p["fullName"])
	assert.EqualValues(t, 77, p["score"])
	assert.Equal(t, false, body["hasResumeFile"])

	require.NotNil(t, svc.lastReq.File)
	assert.Equal(t, "cv.pdf", svc.lastReq.File.Filename)
	assert.Equal(t, "%PDF-1.4 body", string(svc.lastReq.File.Data))
	assert.Equal(t, "jane@example.com", svc.lastReq.ClaimedEmail)
}

func TestParseAcceptsText(t *testing.T) {
	svc := &fakePortfolios{result: janeRecord()}
	app := newApp(svc, 1<<20)

	req := multipartRequest(t, "/resume/parse", map[string]string{"text": "Jane Doe, Go developer"}, "", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, svc.lastReq.File)
	assert.Equal(t, "Jane Doe, Go developer", svc.lastReq.Text)
}

func TestParseRejectsInvalidEmail(t *testing.T) {
	app := newApp(&fakePortfolios{}, 1<<20)
	req := multipartRequest(t, "/resume/parse", map[string]string{"text": "x", "userEmail": "not-an-email"}, "", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "invalid_input", body["kind"])
	assert.Equal(t, "userEmail must be a valid email address", body["message"])
}

func TestParseRejectsOversizedFile(t *testing.T) {
	app := newApp(&fakePortfolios{}, 8)
	req := multipartRequest(t, "/resume/parse", nil, "cv.txt", "definitely more than eight bytes")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestParseMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{apperr.ValidationRejected(resume.ReasonAddressAsName), http.StatusBadRequest, "validation_rejected"},
		{apperr.IdentityNotFound("ghost@example.com"), http.StatusNotFound, "identity_not_found"},
		{apperr.ExtractionFailed(errors.New("bad pdf")), http.StatusUnprocessableEntity, "extraction_failed"},
		{apperr.InferenceUnavailable(errors.New("dial tcp")), http.StatusServiceUnavailable, "inference_unavailable"},
		{apperr.MalformedModelOutput(errors.New("no json")), http.StatusServiceUnavailable, "malformed_model_output"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		app := newApp(&fakePortfolios{err: tc.err}, 1<<20)
		req := multipartRequest(t, "/resume/parse", map[string]string{"text": "resume"}, "", "")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.kind)
		body := decode(t, resp)
		assert.Equal(t, tc.kind, body["kind"])
		if tc.status == http.StatusServiceUnavailable {
			assert.Contains(t, body["message"], "Ollama")
		}
	}
}

func TestReanalyzeRequiresEmail(t *testing.T) {
	app := newApp(&fakePortfolios{}, 1<<20)
	req := multipartRequest(t, "/resume/reanalyze", map[string]string{"text": "resume"}, "", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "userEmail is required", decode(t, resp)["message"])
}

func TestGetByEmail(t *testing.T) {
	app := newApp(&fakePortfolios{result: janeRecord()}, 1<<20)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/portfolios/by-email?email=jane@example.com", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Jane Doe", body["fullName"])
	assert.NotContains(t, body, "ResumeFilePath")

	app = newApp(&fakePortfolios{err: portfolio.ErrNotFound}, 1<<20)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/portfolios/by-email?email=jane@example.com", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", decode(t, resp)["kind"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/portfolios/by-email", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u1_resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("file body"), 0o600))
	rec := janeRecord()
	rec.ResumeFilePath = path

	app := newApp(&fakePortfolios{result: rec, file: path}, 1<<20)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/portfolios/by-email/resume?email=jane@example.com", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "u1_resume.txt")
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "file body", string(b))

	app = newApp(&fakePortfolios{err: portfolio.ErrNoResumeFile}, 1<<20)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/portfolios/by-email/resume?email=jane@example.com", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type fakeIdentities struct {
	err error
}

func (f fakeIdentities) FindByEmail(context.Context, string) (auth.User, error) {
	return auth.User{}, auth.ErrNotFound
}

func (f fakeIdentities) Register(_ context.Context, name, email, _ string) (auth.User, error) {
	if f.err != nil {
		return auth.User{}, f.err
	}
	return auth.User{ID: uuid.New(), Name: name, Email: strings.ToLower(email)}, nil
}

func registerRequestBody(name, email, password string) io.Reader {
	b, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	return bytes.NewReader(b)
}

func postJSON(app *fiber.App, url string, body io.Reader) (*http.Response, error) {
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req, -1)
}

func TestRegisterIdentity(t *testing.T) {
	newIdentityApp := func(uc auth.IdentityUseCase) *fiber.App {
		app := fiber.New()
		app.Post("/identities", NewIdentityHandler(uc, logging.Discard()).Register)
		return app
	}

	resp, err := postJSON(newIdentityApp(fakeIdentities{}), "/identities", registerRequestBody("Jane Doe", "Jane@Example.com", "secret-pass"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "jane@example.com", body["email"])
	assert.NotContains(t, body, "PasswordHash")

	resp, err = postJSON(newIdentityApp(fakeIdentities{}), "/identities", registerRequestBody("Jane Doe", "jane@example.com", "short"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "password must be at least 8 characters", decode(t, resp)["message"])

	resp, err = postJSON(newIdentityApp(fakeIdentities{err: auth.ErrUserAlreadyExists}), "/identities", registerRequestBody("Jane Doe", "jane@example.com", "secret-pass"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", decode(t, resp)["kind"])
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestReadyReportsFailingDependency(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(health.NewService(stubChecker{name: "postgres"}, stubChecker{name: "ollama", err: errors.New("refused")}))
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	live := decode(t, resp)
	assert.Equal(t, "ok", live["status"])
	assert.Contains(t, live, "uptimeSeconds")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["ready"])
}

func analysisScore(score int) analysis.Assessment {
	return analysis.Assessment{Score: score, Summary: "ok", Strengths: []string{"Go"}, Weaknesses: []string{"none"}}
}
