package transformers

import (
	"places-autocomplete/internal/models"
)

// Address component categories understood by the extractor.
const (
	TypeStreetNumber = "street_number"
	TypeRoute        = "route"
	TypeLocality     = "locality"
	TypePostalTown   = "postal_town"
	TypeAdminArea1   = "administrative_area_level_1"
	TypeCountry      = "country"
	TypePostalCode   = "postal_code"
)

type addressTransformer struct{}

func NewAddressTransformer() AddressTransformer {
	return &addressTransformer{}
}

func (t *addressTransformer) ExtractFields(components []models.AddressComponent, previous models.StructuredAddress) models.StructuredAddress {
	return ExtractFields(components, previous)
}

// ExtractFields maps a place's address components onto the five output
// fields. Only the first type of each component is consulted and fields
// whose category is absent keep their previous value.
//
// The street number only reaches the street if its component precedes the
// route; a route seen first produces "{route} " with a trailing space.
func ExtractFields(components []models.AddressComponent, previous models.StructuredAddress) models.StructuredAddress {
	result := previous
	streetNumber := ""

	for _, component := range components {
		switch component.Category() {
		case TypeStreetNumber:
			streetNumber = component.LongName
		case TypeRoute:
			result.Street = component.LongName + " " + streetNumber
		case TypeLocality, TypePostalTown:
			result.City = component.LongName
		case TypeAdminArea1:
			result.State = component.LongName
		case TypeCountry:
			result.Country = component.LongName
		case TypePostalCode:
			result.Zipcode = component.LongName
		}
	}

	return result
}
