package models

// PlaceResult is the place carried by a place-changed event. A nil
// AddressComponents slice means the result has no components at all,
// which is different from an empty list.
type PlaceResult struct {
	PlaceID           string             `json:"place_id,omitempty"`
	FormattedAddress  string             `json:"formatted_address,omitempty"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Prediction is a single autocomplete suggestion offered by the widget.
type Prediction struct {
	PlaceID     string   `json:"place_id"`
	Description string   `json:"description"`
	Types       []string `json:"types,omitempty"`
}
