package models

// AddressComponent is one labeled fragment of a geocoded place.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name,omitempty"`
	Types     []string `json:"types"`
}

// Category returns the first type tag, the only one consulted during
// extraction, or "" when the component carries no tags.
func (c AddressComponent) Category() string {
	if len(c.Types) == 0 {
		return ""
	}
	return c.Types[0]
}

// StructuredAddress is the five-field record a control reports to its host.
type StructuredAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zipcode string `json:"zipcode"`
}
