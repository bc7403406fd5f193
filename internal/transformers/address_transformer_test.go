package transformers

import (
	"testing"

	"places-autocomplete/internal/models"
)

func comp(category, longName string, extra ...string) models.AddressComponent {
	return models.AddressComponent{LongName: longName, Types: append([]string{category}, extra...)}
}

func TestExtractFields(t *testing.T) {
	previous := models.StructuredAddress{
		Street:  "Old Rd 1",
		City:    "Oldtown",
		State:   "Oldstate",
		Country: "Oldland",
		Zipcode: "00000",
	}

	tests := []struct {
		name       string
		components []models.AddressComponent
		want       models.StructuredAddress
	}{
		{
			name:       "empty sequence keeps previous",
			components: nil,
			want:       previous,
		},
		{
			name:       "route only leaves trailing space",
			components: []models.AddressComponent{comp("route", "Main St")},
			want:       models.StructuredAddress{Street: "Main St ", City: "Oldtown", State: "Oldstate", Country: "Oldland", Zipcode: "00000"},
		},
		{
			name: "number before route",
			components: []models.AddressComponent{
				comp("street_number", "42"),
				comp("route", "Main St"),
			},
			want: models.StructuredAddress{Street: "Main St 42", City: "Oldtown", State: "Oldstate", Country: "Oldland", Zipcode: "00000"},
		},
		{
			name: "number after route is dropped",
			components: []models.AddressComponent{
				comp("route", "Main St"),
				comp("street_number", "42"),
			},
			want: models.StructuredAddress{Street: "Main St ", City: "Oldtown", State: "Oldstate", Country: "Oldland", Zipcode: "00000"},
		},
		{
			name: "number without route keeps previous street",
			components: []models.AddressComponent{
				comp("street_number", "42"),
			},
			want: previous,
		},
		{
			name: "postal town after locality wins",
			components: []models.AddressComponent{
				comp("locality", "A"),
				comp("postal_town", "B"),
			},
			want: models.StructuredAddress{Street: "Old Rd 1", City: "B", State: "Oldstate", Country: "Oldland", Zipcode: "00000"},
		},
		{
			name: "locality after postal town wins",
			components: []models.AddressComponent{
				comp("postal_town", "B"),
				comp("locality", "A"),
			},
			want: models.StructuredAddress{Street: "Old Rd 1", City: "A", State: "Oldstate", Country: "Oldland", Zipcode: "00000"},
		},
		{
			name:       "unknown category ignored",
			components: []models.AddressComponent{comp("sublocality", "Soho")},
			want:       previous,
		},
		{
			name:       "only first type consulted",
			components: []models.AddressComponent{comp("political", "Texas", "administrative_area_level_1")},
			want:       previous,
		},
		{
			name:       "component without types ignored",
			components: []models.AddressComponent{{LongName: "nothing"}},
			want:       previous,
		},
		{
			name: "full place",
			components: []models.AddressComponent{
				comp("street_number", "1600"),
				comp("route", "Amphitheatre Pkwy"),
				comp("locality", "Mountain View", "political"),
				comp("administrative_area_level_2", "Santa Clara County", "political"),
				comp("administrative_area_level_1", "California", "political"),
				comp("country", "United States", "political"),
				comp("postal_code", "94043"),
			},
			want: models.StructuredAddress{
				Street:  "Amphitheatre Pkwy 1600",
				City:    "Mountain View",
				State:   "California",
				Country: "United States",
				Zipcode: "94043",
			},
		},
		{
			name:       "values are not trimmed",
			components: []models.AddressComponent{comp("postal_code", " 94043 ")},
			want:       models.StructuredAddress{Street: "Old Rd 1", City: "Oldtown", State: "Oldstate", Country: "Oldland", Zipcode: " 94043 "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFields(tt.components, previous)
			if got != tt.want {
				t.Errorf("ExtractFields() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractFieldsStreetNumberDoesNotPersist(t *testing.T) {
	first := ExtractFields([]models.AddressComponent{comp("street_number", "7"), comp("route", "Elm St")}, models.StructuredAddress{})
	second := ExtractFields([]models.AddressComponent{comp("route", "Oak Ave")}, first)

	if second.Street != "Oak Ave " {
		t.Errorf("street = %q, want %q", second.Street, "Oak Ave ")
	}
}

func TestExtractFieldsIdempotent(t *testing.T) {
	components := []models.AddressComponent{
		comp("street_number", "42"),
		comp("route", "Main St"),
		comp("postal_town", "London"),
		comp("country", "United Kingdom"),
		comp("postal_code", "SW1A 1AA"),
	}
	transformer := NewAddressTransformer()

	once := transformer.ExtractFields(components, models.StructuredAddress{})
	twice := transformer.ExtractFields(components, once)

	if once != twice {
		t.Errorf("second extraction = %+v, want %+v", twice, once)
	}
}
