package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
	"github.com/noah-isme/lesson-studio-api/pkg/response"
)

// LevelingHandler exposes the read-only proficiency tables.
type LevelingHandler struct {
	validate *validator.Validate
}

// NewLevelingHandler builds a leveling handler. The validator must carry the
// lesson enum validations.
func NewLevelingHandler(validate *validator.Validate) *LevelingHandler {
	return &LevelingHandler{validate: validate}
}

// FrameworkRows returns a framework table ordered by level.
func FrameworkRows(framework models.Framework) []dto.FrameworkLevelRow {
	table := models.FrameworkTable(framework)
	rows := make([]dto.FrameworkLevelRow, 0, len(table))
	for level, detail := range table {
		rows = append(rows, dto.FrameworkLevelRow{Level: level, LevelDetail: detail})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
	return rows
}

// Framework godoc
// @Summary Show the level table of a framework
// @Tags Leveling
// @Produce json
// @Param framework path string true "GEPT, TOCFL or GRADE (case-insensitive)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leveling/frameworks/{framework} [get]
func (h *LevelingHandler) Framework(c *gin.Context) {
	framework := models.Framework(strings.ToUpper(c.Param("framework")))
	if !framework.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown framework"))
		return
	}
	response.JSON(c, http.StatusOK, FrameworkRows(framework), nil)
}

// Proficiency godoc
// @Summary Resolve a proficiency label
// @Tags Leveling
// @Produce json
// @Param language query string true "en or zh"
// @Param category query string true "child or adult"
// @Param level query int true "Level 1-6"
// @Param framework query string false "Framework; inferred when empty"
// @Success 200 {object} response.Envelope
// @Router /leveling/proficiency [get]
func (h *LevelingHandler) Proficiency(c *gin.Context) {
	var query dto.ProficiencyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proficiency query"))
		return
	}
	if err := h.validate.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	response.JSON(c, http.StatusOK, models.BuildProficiency(query.Language, query.Category, query.Level, query.Framework), nil)
}
