package transformers

import (
	"places-autocomplete/internal/models"
)

type AddressTransformer interface {
	ExtractFields(components []models.AddressComponent, previous models.StructuredAddress) models.StructuredAddress
}
