package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mkarpova/voyagerui/internal/chat"
)

// Auxiliary read-only listings. These are thin passthroughs; the chat
// replies already embed the same destination shape.

// Destinations lists travel destinations, optionally filtered by a search
// query.
func (c *Client) Destinations(ctx context.Context, query string) ([]chat.Destination, error) {
	path := "/destinations/"
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}
	var envelope listEnvelope[destinationPayload]
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return toDestinations(envelope.Items), nil
}

// Recommendations lists destinations the backend picked for this user.
func (c *Client) Recommendations(ctx context.Context) ([]chat.Destination, error) {
	var envelope listEnvelope[destinationPayload]
	if err := c.do(ctx, http.MethodGet, "/recommendations/", nil, &envelope); err != nil {
		return nil, err
	}
	return toDestinations(envelope.Items), nil
}

// WeatherReport is the current-weather summary for a destination.
type WeatherReport struct {
	Destination struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		State string `json:"state"`
	} `json:"destination"`
	Weather struct {
		Temperature float64 `json:"temperature"`
		Condition   string  `json:"condition"`
		Humidity    int     `json:"humidity"`
	} `json:"weather"`
	GoodForTravel bool   `json:"is_good_for_travel"`
	TravelAdvice  string `json:"travel_advice"`
}

// Weather fetches current weather for a destination.
func (c *Client) Weather(ctx context.Context, destinationID string) (*WeatherReport, error) {
	var report WeatherReport
	if err := c.do(ctx, http.MethodGet, "/integrations/weather/"+destinationID+"/", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
