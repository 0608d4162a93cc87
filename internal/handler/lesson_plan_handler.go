package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	"github.com/noah-isme/lesson-studio-api/internal/service"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
	"github.com/noah-isme/lesson-studio-api/pkg/response"
)

type lessonPlanService interface {
	CreateDraft(ctx context.Context, req dto.CreateLessonPlanRequest) (*models.LessonPlan, error)
	List(ctx context.Context, query dto.LessonPlanQuery) ([]models.LessonPlan, error)
	GetByID(ctx context.Context, id string) (*models.LessonPlan, error)
	Update(ctx context.Context, id string, req dto.UpdateLessonPlanRequest) (*models.LessonPlan, error)
	Delete(ctx context.Context, id string) error
	AddValidation(ctx context.Context, id string, result models.ValidationResult) (*models.LessonPlan, error)
	Transition(ctx context.Context, id string, next models.LessonPlanStatus) (*models.LessonPlan, error)
	Assign(ctx context.Context, id string, studentIDs []string) (*models.LessonPlan, error)
}

type lessonPlanValidator interface {
	Validate(ctx context.Context, planID string) (*models.ValidationResult, *models.LessonPlan, error)
}

type validationReporter interface {
	Render(ctx context.Context, plan *models.LessonPlan, format dto.ReportFormat) (*service.ReportFile, error)
}

// LessonPlanHandler exposes the lesson plan authoring and review endpoints.
type LessonPlanHandler struct {
	plans     lessonPlanService
	validator lessonPlanValidator
	reports   validationReporter
}

// NewLessonPlanHandler builds a new handler.
func NewLessonPlanHandler(plans lessonPlanService, validator lessonPlanValidator, reports validationReporter) *LessonPlanHandler {
	return &LessonPlanHandler{plans: plans, validator: validator, reports: reports}
}

// Create godoc
// @Summary Create a draft lesson plan
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonPlanRequest true "Lesson plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lesson-plans [post]
func (h *LessonPlanHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson plan payload"))
		return
	}
	if !claims.IsAdmin() || req.TeacherID == "" {
		req.TeacherID = claims.UserID
	}
	plan, err := h.plans.CreateDraft(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// List godoc
// @Summary List lesson plans
// @Description Teachers only see their own plans; admins may filter by teacher.
// @Tags LessonPlans
// @Produce json
// @Param teacherId query string false "Teacher ID (admin only)"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans [get]
func (h *LessonPlanHandler) List(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	query := dto.LessonPlanQuery{TeacherID: claims.UserID}
	if claims.IsAdmin() {
		query.TeacherID = strings.TrimSpace(c.Query("teacherId"))
	}
	for _, raw := range strings.Split(c.Query("status"), ",") {
		if status := strings.TrimSpace(raw); status != "" {
			query.Status = append(query.Status, models.LessonPlanStatus(status))
		}
	}
	plans, err := h.plans.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, map[string]interface{}{"total": len(plans)})
}

// Get godoc
// @Summary Get a lesson plan
// @Tags LessonPlans
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lesson-plans/{id} [get]
func (h *LessonPlanHandler) Get(c *gin.Context) {
	plan, ok := h.authorizedPlan(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Update godoc
// @Summary Edit lesson plan content
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body dto.UpdateLessonPlanRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/{id} [put]
func (h *LessonPlanHandler) Update(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	var req dto.UpdateLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson plan payload"))
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Delete godoc
// @Summary Delete a lesson plan
// @Tags LessonPlans
// @Param id path string true "Lesson plan ID"
// @Success 204
// @Router /lesson-plans/{id} [delete]
func (h *LessonPlanHandler) Delete(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	if err := h.plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Validate godoc
// @Summary Run the validation pipeline and record the result
// @Tags LessonPlans
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/{id}/validate [post]
func (h *LessonPlanHandler) Validate(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	result, plan, err := h.validator.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ValidateLessonPlanResponse{Result: result, Plan: plan}, nil)
}

// AddValidation godoc
// @Summary Record an externally computed validation result
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body models.ValidationResult true "Validation result"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/{id}/validations [post]
func (h *LessonPlanHandler) AddValidation(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	var result models.ValidationResult
	if err := c.ShouldBindJSON(&result); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation result"))
		return
	}
	if !result.Consistent() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "passed flags do not match the reported issues"))
		return
	}
	plan, err := h.plans.AddValidation(c.Request.Context(), c.Param("id"), result)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Transition godoc
// @Summary Move a lesson plan through the review workflow
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body dto.TransitionLessonPlanRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lesson-plans/{id}/transition [post]
func (h *LessonPlanHandler) Transition(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	var req dto.TransitionLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status is required"))
		return
	}
	plan, err := h.plans.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Assign godoc
// @Summary Assign a finalized lesson plan to students
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body dto.AssignLessonPlanRequest true "Students"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /lesson-plans/{id}/assign [post]
func (h *LessonPlanHandler) Assign(c *gin.Context) {
	if _, ok := h.authorizedPlan(c); !ok {
		return
	}
	var req dto.AssignLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	plan, err := h.plans.Assign(c.Request.Context(), c.Param("id"), req.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Report godoc
// @Summary Download the latest validation report
// @Tags LessonPlans
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Lesson plan ID"
// @Param format query string false "csv or pdf" Enums(csv,pdf)
// @Success 200 {file} file
// @Router /lesson-plans/{id}/report [get]
func (h *LessonPlanHandler) Report(c *gin.Context) {
	plan, ok := h.authorizedPlan(c)
	if !ok {
		return
	}
	format := dto.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ReportFormatCSV))))
	file, err := h.reports.Render(c.Request.Context(), plan, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// authorizedPlan loads the plan named by the id path parameter and checks
// the caller may act on it. It writes the error response itself.
func (h *LessonPlanHandler) authorizedPlan(c *gin.Context) (*models.LessonPlan, bool) {
	claims := requireClaims(c)
	if claims == nil {
		return nil, false
	}
	plan, err := h.plans.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !canManagePlan(claims, plan) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "lesson plan belongs to another teacher"))
		return nil, false
	}
	return plan, true
}
