package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
	"github.com/narvanalabs/logbook/internal/models"
)

// CreateLogRequest represents the request body for creating a log record.
type CreateLogRequest struct {
	Owner   string `json:"owner" validate:"required,notblank"`
	LogText string `json:"logText" validate:"required,notblank"`
}

// UpdateLogRequest represents the request body for updating a log record.
// Omitted fields are left unchanged.
type UpdateLogRequest struct {
	Owner   *string `json:"owner" validate:"omitnil,notblank"`
	LogText *string `json:"logText" validate:"omitnil,notblank"`
}

// Patch converts the request into a store patch.
func (r *UpdateLogRequest) Patch() models.LogRecordPatch {
	return models.LogRecordPatch{
		Owner:   r.Owner,
		LogText: r.LogText,
	}
}

// newValidator builds a validator that reports JSON field names and knows notblank.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs struct validation and converts failures to field errors.
func (h *LogHandler) validateStruct(s any) apierrors.ValidationErrors {
	var fields apierrors.ValidationErrors

	err := h.validate.Struct(s)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("", err.Error())
		return fields
	}

	for _, fe := range verrs {
		fields.Add(fe.Field(), fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	default:
		return fe.Field() + " is invalid"
	}
}
