package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/artem13815/portfolio/api/http/presenter"
	"github.com/artem13815/portfolio/pkg/portfolio"
)

type PortfolioHandler struct {
	svc      portfolio.UseCase
	log      logrus.FieldLogger
	validate *validator.Validate
}

func NewPortfolioHandler(svc portfolio.UseCase, log logrus.FieldLogger) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, log: log, validate: newValidator()}
}

type byEmailQuery struct {
	Email string `query:"email" validate:"required,email"`
}

func (h *PortfolioHandler) email(c *fiber.Ctx) (string, error) {
	var q byEmailQuery
	if err := c.QueryParser(&q); err != nil {
		return "", errors.New("invalid query")
	}
	if err := h.validate.Struct(q); err != nil {
		return "", errors.New(validationMessage(err))
	}
	return q.Email, nil
}

// GetByEmail возвращает актуальное портфолио по email владельца.
// @Summary Портфолио по email
// @Tags    Портфолио
// @Produce json
// @Param   email query string true "Email владельца"
// @Success 200 {object} portfolio.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /portfolios/by-email [get]
func (h *PortfolioHandler) GetByEmail(c *fiber.Ctx) error {
	email, err := h.email(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Get(c.Context(), email)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "portfolio not found")
		}
		h.log.WithError(err).Error("load portfolio")
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// DownloadResume скачивает исходный файл резюме актуального портфолио.
// @Summary Скачать файл резюме
// @Tags    Портфолио
// @Produce application/octet-stream
// @Param   email query string true "Email владельца"
// @Success 200 {file} file
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /portfolios/by-email/resume [get]
func (h *PortfolioHandler) DownloadResume(c *fiber.Ctx) error {
	email, err := h.email(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	rec, file, err := h.svc.OpenResume(c.Context(), email)
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "portfolio not found")
	case errors.Is(err, portfolio.ErrNoResumeFile):
		return presenter.Error(c, http.StatusNotFound, "no resume file stored")
	case err != nil:
		h.log.WithError(err).Error("open resume file")
		return presenter.Fail(c, err)
	}
	c.Attachment(filepath.Base(rec.ResumeFilePath))
	// fasthttp closes the file once the body is written
	return c.SendStream(file)
}
