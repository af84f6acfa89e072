package handler

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/service"
	"paperplane/internal/validation"
)

// ExtractionHandler turns uploaded markdown into structured questions.
type ExtractionHandler struct {
	service      service.ExtractionService
	validator    *validation.Validator
	maxFileBytes int64
	logger       *zap.Logger
}

func NewExtractionHandler(svc service.ExtractionService, maxFileBytes int64, logger *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		service:      svc,
		validator:    validation.NewValidator(),
		maxFileBytes: maxFileBytes,
		logger:       logger,
	}
}

// Extract godoc
// @Summary Extract questions from markdown
// @Description Accepts JSON {markdown, type} or a multipart form with a file field and an optional type field
// @Tags extraction
// @Accept json
// @Accept mpfd
// @Produce json
// @Param request body dto.ExtractRequest false "Markdown document"
// @Param file formData file false "Markdown file"
// @Param type formData string false "Question type selector"
// @Success 200 {object} dto.ExtractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /extract [post]
func (h *ExtractionHandler) Extract(c *fiber.Ctx) error {
	var req dto.ExtractRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		markdown, err := h.readUpload(c)
		if err != nil {
			return err
		}
		req.Markdown = markdown
		req.Type = c.FormValue("type")
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	resp, err := h.service.Extract(c.UserContext(), req.Markdown, req.Type)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ExtractionHandler) readUpload(c *fiber.Ctx) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", domain.ValidationErrors{domain.NewFieldError("file", "No file uploaded")}
	}
	if errs := h.validator.ValidateMarkdownFile(header.Filename, header.Size, h.maxFileBytes); len(errs) > 0 {
		return "", errs
	}

	f, err := header.Open()
	if err != nil {
		return "", domain.NewInternalError("failed to open uploaded file", err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return "", domain.NewInternalError("failed to read uploaded file", err)
	}
	h.logger.Debug("Markdown file received",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
	)
	return string(body), nil
}

// Types godoc
// @Summary Question type selectors
// @Tags extraction
// @Produce json
// @Success 200 {object} dto.QuestionTypesResponse
// @Router /extract/types [get]
func (h *ExtractionHandler) Types(c *fiber.Ctx) error {
	return c.JSON(dto.QuestionTypesResponse{Success: true, Types: h.service.Types()})
}
