package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/models"
)

const maxInputLength = 512

type controlValidator struct {
	validate *validator.Validate
}

func NewControlValidator() ControlValidator {
	return &controlValidator{
		validate: validator.New(),
	}
}

func (v *controlValidator) ValidateParameters(params *models.ControlParameters) error {
	if params == nil {
		return fmt.Errorf("control parameters are required: %w", apperrors.ErrInvalidParameters)
	}
	if strings.ContainsAny(params.GoogleAPIKey, " \t\r\n") {
		return fmt.Errorf("google api key contains whitespace: %w", apperrors.ErrInvalidParameters)
	}
	return v.structErr(params)
}

func (v *controlValidator) ValidateBlur(req *models.BlurRequest) error {
	if req == nil {
		return fmt.Errorf("blur request is required: %w", apperrors.ErrInvalidParameters)
	}
	return v.structErr(req)
}

func (v *controlValidator) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input is required: %w", apperrors.ErrInvalidParameters)
	}
	if len(input) > maxInputLength {
		return fmt.Errorf("input longer than %d bytes: %w", maxInputLength, apperrors.ErrInvalidParameters)
	}
	return nil
}

func (v *controlValidator) ValidateSelect(req *models.SelectRequest) error {
	if req == nil {
		return fmt.Errorf("select request is required: %w", apperrors.ErrInvalidParameters)
	}
	return v.structErr(req)
}

// ValidatePlace only rejects a missing place. A place without components
// is accepted and ignored by the control.
func (v *controlValidator) ValidatePlace(place *models.PlaceResult) error {
	if place == nil {
		return fmt.Errorf("place result is required: %w", apperrors.ErrInvalidPlace)
	}
	return nil
}

func (v *controlValidator) structErr(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("field %s failed %s validation: %w", fe.Field(), fe.Tag(), apperrors.ErrInvalidParameters)
	}
	return fmt.Errorf("%v: %w", err, apperrors.ErrInvalidParameters)
}
