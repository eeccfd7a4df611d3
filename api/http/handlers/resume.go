package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/artem13815/portfolio/api/http/presenter"
	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/portfolio"
	"github.com/artem13815/portfolio/pkg/resume"
)

var errTooLarge = errors.New("file too large")

type ResumeHandler struct {
	svc      portfolio.UseCase
	log      logrus.FieldLogger
	validate *validator.Validate
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewResumeHandler(svc portfolio.UseCase, log logrus.FieldLogger, maxBytes int64) *ResumeHandler {
	if maxBytes <= 0 {
		maxBytes = 15 << 20 // 15MB
	}
	return &ResumeHandler{svc: svc, log: log, validate: newValidator(), maxBytes: maxBytes}
}

type parseForm struct {
	Text      string `form:"text"`
	UserEmail string `form:"userEmail" validate:"omitempty,email"`
}

type reanalyzeForm struct {
	Text      string `form:"text"`
	UserEmail string `form:"userEmail" validate:"required,email"`
}

// Parse извлекает профиль из резюме, оценивает его и сохраняет как
// актуальное портфолио владельца.
// @Summary Разбор и оценка резюме
// @Description Принимает файл резюме (PDF, DOCX, HTML, TXT) или текст, извлекает профиль через LLM и сохраняет портфолио.
// @Tags    Резюме
// @Accept  multipart/form-data
// @Produce json
// @Param   file      formData file   false "Файл резюме"
// @Param   text      formData string false "Текст резюме (вместо файла)"
// @Param   userEmail formData string false "Email владельца резюме"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /resume/parse [post]
func (h *ResumeHandler) Parse(c *fiber.Ctx) error {
	var form parseForm
	if err := c.BodyParser(&form); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid form payload")
	}
	if err := h.validate.Struct(form); err != nil {
		return presenter.Error(c, http.StatusBadRequest, validationMessage(err))
	}
	req, status, err := h.submitRequest(c, form.Text, form.UserEmail)
	if err != nil {
		return presenter.Error(c, status, err.Error())
	}
	rec, err := h.svc.Submit(c.Context(), req)
	return h.respond(c, rec, err)
}

// Reanalyze удаляет сохранённое портфолио и историю и разбирает резюме заново.
// @Summary Повторный анализ резюме
// @Tags    Резюме
// @Accept  multipart/form-data
// @Produce json
// @Param   file      formData file   false "Файл резюме"
// @Param   text      formData string false "Текст резюме (вместо файла)"
// @Param   userEmail formData string true  "Email владельца резюме"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /resume/reanalyze [post]
func (h *ResumeHandler) Reanalyze(c *fiber.Ctx) error {
	var form reanalyzeForm
	if err := c.BodyParser(&form); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid form payload")
	}
	if err := h.validate.Struct(form); err != nil {
		return presenter.Error(c, http.StatusBadRequest, validationMessage(err))
	}
	req, status, err := h.submitRequest(c, form.Text, form.UserEmail)
	if err != nil {
		return presenter.Error(c, status, err.Error())
	}
	rec, err := h.svc.Reanalyze(c.Context(), req)
	return h.respond(c, rec, err)
}

func (h *ResumeHandler) submitRequest(c *fiber.Ctx, text, email string) (portfolio.SubmitRequest, int, error) {
	req := portfolio.SubmitRequest{Text: text, ClaimedEmail: email}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		// text-only submission
		return req, 0, nil
	}
	file, err := fh.Open()
	if err != nil {
		return req, http.StatusBadRequest, errors.New("failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return req, http.StatusRequestEntityTooLarge, err
		}
		return req, http.StatusBadRequest, err
	}
	req.File = &resume.Document{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}
	return req, 0, nil
}

func (h *ResumeHandler) respond(c *fiber.Ctx, rec portfolio.Record, err error) error {
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.log.WithError(err).WithField("path", c.Path()).Error("resume processing failed")
		}
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"portfolio":     rec,
		"hasResumeFile": rec.HasResumeFile(),
	})
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w: limit is %d bytes", errTooLarge, max)
	}
	return b, nil
}
