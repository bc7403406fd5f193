package places

import (
	"context"
	"net/url"
	"strings"

	"places-autocomplete/internal/models"
)

type autocompleteResponse struct {
	Predictions  []models.Prediction `json:"predictions"`
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message"`
}

// Autocomplete returns predictions for the partial input. types narrows the
// predictions, e.g. "geocode". ZERO_RESULTS yields an empty slice.
func (c *Client) Autocomplete(ctx context.Context, input string, types []string) ([]models.Prediction, error) {
	params := url.Values{}
	params.Set("input", input)
	if len(types) > 0 {
		params.Set("types", strings.Join(types, "|"))
	}

	var resp autocompleteResponse
	if err := c.getJSON(ctx, "autocomplete", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case StatusOK:
		return resp.Predictions, nil
	case StatusZeroResults:
		return []models.Prediction{}, nil
	default:
		return nil, &APIStatusError{Endpoint: "autocomplete", Status: resp.Status, Message: resp.ErrorMessage}
	}
}
