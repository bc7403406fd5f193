package models

// ControlParameters is the property bag a host binds to a control. Nil
// address fields mirror unset bound values.
type ControlParameters struct {
	Street       *string `json:"street" validate:"omitempty,max=512"`
	City         *string `json:"city" validate:"omitempty,max=256"`
	State        *string `json:"state" validate:"omitempty,max=256"`
	Zipcode      *string `json:"zipcode" validate:"omitempty,max=32"`
	Country      *string `json:"country" validate:"omitempty,max=256"`
	GoogleAPIKey string  `json:"googleApiKey" validate:"omitempty,max=256,printascii"`
}

// Raw returns the bound address values with unset fields as "".
func (p ControlParameters) Raw() StructuredAddress {
	return StructuredAddress{
		Street:  raw(p.Street),
		City:    raw(p.City),
		State:   raw(p.State),
		Country: raw(p.Country),
		Zipcode: raw(p.Zipcode),
	}
}

func raw(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// BlurRequest carries the text left in the input when it loses focus.
type BlurRequest struct {
	Value string `json:"value" validate:"max=512"`
}

// SelectRequest picks one of the widget's predictions.
type SelectRequest struct {
	PlaceID string `json:"placeId" validate:"required,max=512"`
}

// ControlResponse is returned when a control is created.
type ControlResponse struct {
	ID        string            `json:"id"`
	ScriptURL string            `json:"scriptUrl"`
	Outputs   StructuredAddress `json:"outputs"`
}

// OutputNotification is published whenever a control's outputs change.
type OutputNotification struct {
	ControlID string            `json:"controlId"`
	Outputs   StructuredAddress `json:"outputs"`
}
