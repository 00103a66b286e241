package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fieldtrack/internal/model"
)

var registerOnce sync.Once

// enumTag validates a string field against a fixed set of values.
func enumTag(values ...string) validator.Func {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

// RegisterValidators installs the domain binding tags on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("project_status", enumTag(
			model.ProjectStatusActive, model.ProjectStatusInProgress, model.ProjectStatusCompleted,
		))
		_ = v.RegisterValidation("project_type", enumTag(model.ProjectTypeBench, model.ProjectTypePatios))
		_ = v.RegisterValidation("user_status_hint", enumTag(model.UserStatusPresent, model.UserStatusEnRoute))
		_ = v.RegisterValidation("qc_phase", enumTag(model.PhaseCategorization, model.PhaseRepack))
	})
}
