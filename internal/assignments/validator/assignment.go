package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AssignmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAssignmentValidator(log *logger.Logger) *AssignmentValidator {
	v := validator.New()

	log.Info("Assignment validator initialized successfully")

	return &AssignmentValidator{
		validate: v,
		logger:   log,
	}
}

func (v *AssignmentValidator) ValidateResource(resource *model.Resource) error {
	if err := v.validate.Struct(resource); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AssignmentValidator) ValidateResourceUpdate(update *model.ResourceUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateRequests checks a batch of assignment requests. Each entry may
// carry its own window; when it does, both ends must be present and the
// window must be valid.
func (v *AssignmentValidator) ValidateRequests(requests []model.AssignmentRequest) error {
	if len(requests) == 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "Assignments",
				Message: "at least one assignment is required",
			},
		}
	}

	var errs ValidationErrors
	for i, req := range requests {
		if err := v.validate.Struct(req); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				for _, e := range v.translateValidationErrors(validationErrs) {
					e.Field = fmt.Sprintf("assignments[%d].%s", i, e.Field)
					errs = append(errs, e)
				}
				continue
			}
			return err
		}

		if (req.StartTime == nil) != (req.EndTime == nil) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("assignments[%d]", i),
				Message: "start_time and end_time must be provided together",
			})
			continue
		}

		if req.StartTime != nil {
			window := model.Window{Start: *req.StartTime, End: *req.EndTime}
			if err := window.Validate(); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("assignments[%d]", i),
					Message: err.Error(),
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *AssignmentValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "hexcolor":
			message = fmt.Sprintf("%s must be a hex color (e.g., #ffcc00)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
