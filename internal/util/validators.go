package util

import (
	"github.com/go-playground/validator/v10"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
)

// ValidateReaction 验证反应类型是否为 like/dislike
func ValidateReaction(fl validator.FieldLevel) bool {
	kind, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return model.IsValidReaction(kind)
}
