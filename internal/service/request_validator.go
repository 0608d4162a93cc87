package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

// NewRequestValidator returns a validator with the lesson studio enum tags registered.
func NewRequestValidator() *validator.Validate {
	validate := validator.New()
	registerLessonValidations(validate)
	return validate
}

func registerLessonValidations(validate *validator.Validate) {
	validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return models.LanguageTrack(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("framework", func(fl validator.FieldLevel) bool {
		return models.Framework(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return models.LevelNumber(fl.Field().Int()).Valid()
	})
	validate.RegisterValidation("source_type", func(fl validator.FieldLevel) bool {
		return models.SourceType(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("lesson_status", func(fl validator.FieldLevel) bool {
		return models.LessonPlanStatus(fl.Field().String()).Valid()
	})
}
