package places

import (
	"context"
	"net/url"

	"places-autocomplete/internal/models"
)

// detailFields limits Place Details billing to what the control reads.
const detailFields = "address_component,formatted_address,place_id"

type detailsResponse struct {
	Result       *models.PlaceResult `json:"result"`
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message"`
}

// Details fetches the address components of a place. The returned result
// keeps AddressComponents nil when Google omitted them.
func (c *Client) Details(ctx context.Context, placeID string) (*models.PlaceResult, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	var resp detailsResponse
	if err := c.getJSON(ctx, "details", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK {
		return nil, &APIStatusError{Endpoint: "details", Status: resp.Status, Message: resp.ErrorMessage}
	}
	return resp.Result, nil
}
