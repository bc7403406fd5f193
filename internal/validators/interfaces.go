package validators

import (
	"places-autocomplete/internal/models"
)

type ControlValidator interface {
	ValidateParameters(params *models.ControlParameters) error
	ValidateBlur(req *models.BlurRequest) error
	ValidateInput(input string) error
	ValidateSelect(req *models.SelectRequest) error
	ValidatePlace(place *models.PlaceResult) error
}
