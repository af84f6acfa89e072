package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/middleware"
	"paperplane/internal/service"
	"paperplane/internal/validation"
)

// QuestionHandler handles curated question storage requests
type QuestionHandler struct {
	service   service.QuestionService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(svc service.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		service:   svc,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

// Upload godoc
// @Summary Upload a question
// @Description Validates the answer, re-hosts every referenced image and stores the question
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.QuestionRequest true "Question to store"
// @Success 200 {object} dto.UploadResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/upload [post]
func (h *QuestionHandler) Upload(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	result, err := h.service.Upload(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// UploadBatch godoc
// @Summary Upload several questions
// @Description Each question is processed independently; failures are reported per item
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.BatchUploadRequest true "Questions to store"
// @Success 200 {object} dto.BatchUploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/upload-batch [post]
func (h *QuestionHandler) UploadBatch(c *fiber.Ctx) error {
	var req dto.BatchUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if len(req.Questions) == 0 {
		return domain.ValidationErrors{domain.NewFieldError("questions", "questions must be a non-empty array")}
	}

	resp := h.service.UploadBatch(c.UserContext(), req.Questions)
	h.logger.Info("Batch upload finished",
		zap.Int("successful", resp.Successful),
		zap.Int("failed", resp.Failed),
	)
	return c.JSON(resp)
}

// List godoc
// @Summary List questions
// @Description Returns stored questions ordered by subject, chapter, section and number
// @Tags questions
// @Produce json
// @Param subject query string false "Subject"
// @Param chapter query string false "Chapter"
// @Param section query string false "Section"
// @Success 200 {object} dto.QuestionListResponse
// @Security ApiKeyAuth
// @Router /questions [get]
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	filter := domain.QuestionFilter{
		Subject: c.Query("subject"),
		Chapter: c.Query("chapter"),
		Section: c.Query("section"),
	}
	if errs := h.validator.ValidateFilter(filter); len(errs) > 0 {
		return errs
	}

	questions, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return c.JSON(dto.QuestionListResponse{
		Success:   true,
		Count:     len(questions),
		Questions: questions,
	})
}

// FilterOptions godoc
// @Summary Distinct taxonomy values
// @Tags questions
// @Produce json
// @Success 200 {object} dto.FilterOptionsResponse
// @Security ApiKeyAuth
// @Router /questions/filter-options [get]
func (h *QuestionHandler) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.service.FilterOptions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FilterOptionsResponse{Success: true, Options: opts})
}

// CreateIndexes godoc
// @Summary Create the listing indexes
// @Tags questions
// @Produce json
// @Success 200 {object} dto.CreateIndexesResponse
// @Security ApiKeyAuth
// @Router /questions/create-indexes [post]
func (h *QuestionHandler) CreateIndexes(c *fiber.Ctx) error {
	names, err := h.service.CreateIndexes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.CreateIndexesResponse{
		Success: true,
		Message: "Indexes created successfully",
		Indexes: names,
	})
}

// Update godoc
// @Summary Replace a stored question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Document id"
// @Param request body dto.QuestionRequest true "Replacement question"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/{id} [put]
func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedQuestionIDKey).(string)
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	if err := h.service.Update(c.UserContext(), id, req.Question); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Question updated successfully"})
}

// Delete godoc
// @Summary Delete a stored question
// @Tags questions
// @Produce json
// @Param id path string true "Document id"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedQuestionIDKey).(string)
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Question deleted successfully"})
}

// DeleteMultiple godoc
// @Summary Delete several questions
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.DeleteMultipleRequest true "Document ids"
// @Success 200 {object} dto.DeleteMultipleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/delete-multiple [post]
func (h *QuestionHandler) DeleteMultiple(c *fiber.Ctx) error {
	var req dto.DeleteMultipleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateDeleteIDs(req.IDs); len(errs) > 0 {
		return errs
	}

	n, err := h.service.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteMultipleResponse{
		Success:      true,
		Message:      fmt.Sprintf("Successfully deleted %d question(s)", n),
		DeletedCount: n,
	})
}

// ImageProxy godoc
// @Summary Fetch an image through the server
// @Description Only hosts from image_proxy.allowed_hosts and the configured bucket are served
// @Tags questions
// @Produce image/png
// @Param url query string true "Image URL"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/image-proxy [get]
func (h *QuestionHandler) ImageProxy(c *fiber.Ctx) error {
	img, err := h.service.ProxyImage(c.UserContext(), c.Query("url"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(img.Body)
}
