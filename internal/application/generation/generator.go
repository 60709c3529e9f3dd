package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"dreamstay-backend/internal/domain"
)

const systemPrompt = "You are an expert at creating unique and appealing travel listings."

const listingPrompt = `You are a creative travel destination generator specializing in imaginative, AI-generated locations. Generate one rental listing.

The listing should feel fantastical yet plausible, carry subtle references to AI and technology without overwhelming the reader, and balance wonder with practicality.

Respond with a JSON object in exactly this shape:
{
  "title": "A captivating name for the property (max 40 characters)",
  "location": "An evocative location name (max 30 characters)",
  "description": "A compelling 2-3 sentence description (max 200 characters)",
  "propertyType": "The type of accommodation (e.g., loft, villa, treehouse)",
  "keyFeatures": ["Array of 3-5 standout features"],
  "pricePerNight": "A number between 100-1000",
  "idealFor": "1-2 target guest types (e.g., 'Digital nomads', 'Tech enthusiasts')"
}

The response must be valid JSON and include every field. Balance innovation with homey comfort and avoid dystopian elements or unrealistic features.`

// RequiredFields lists the generated fields in the order they are validated.
var RequiredFields = []string{
	"title",
	"location",
	"description",
	"propertyType",
	"keyFeatures",
	"pricePerNight",
	"idealFor",
}

// TextCompleter is the text-generation service port.
type TextCompleter interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Generator produces a validated listing fragment (no id) from the text service.
type Generator struct {
	Completer   TextCompleter
	Temperature float32
	MaxTokens   int
}

// NewGenerator returns a Generator with the default sampling settings.
func NewGenerator(c TextCompleter) *Generator {
	return &Generator{Completer: c, Temperature: 0.7, MaxTokens: 500}
}

// Generate makes exactly one text-service call. The returned listing has no ID
// and its values are exactly what the service produced.
func (g *Generator) Generate(ctx context.Context) (*domain.Listing, error) {
	content, err := g.Completer.Complete(ctx, domain.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       listingPrompt,
		JSONMode:     true,
		Temperature:  g.Temperature,
		MaxTokens:    g.MaxTokens,
	})
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &domain.UpstreamError{Service: "text", Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyResponse
	}
	return ParseListing([]byte(content))
}

// ParseListing decodes and validates text-service content.
func ParseListing(content []byte) (*domain.Listing, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	if fields == nil {
		return nil, &domain.ParseError{Err: errors.New("content is not a JSON object")}
	}

	for _, name := range RequiredFields {
		raw, ok := fields[name]
		if !ok || isFalsy(raw) {
			return nil, &domain.ValidationError{Field: name}
		}
	}

	l := &domain.Listing{}
	strFields := []struct {
		name string
		dst  *string
	}{
		{"title", &l.Title},
		{"location", &l.Location},
		{"description", &l.Description},
		{"propertyType", &l.PropertyType},
		{"idealFor", &l.IdealFor},
	}
	for _, f := range strFields {
		if err := json.Unmarshal(fields[f.name], f.dst); err != nil {
			return nil, &domain.ValidationError{Field: f.name, Reason: "must be a string"}
		}
	}
	if err := json.Unmarshal(fields["keyFeatures"], &l.KeyFeatures); err != nil {
		return nil, &domain.ValidationError{Field: "keyFeatures", Reason: "must be an array of strings"}
	}
	price, err := decodeNumber(fields["pricePerNight"])
	if err != nil {
		return nil, &domain.ValidationError{Field: "pricePerNight", Reason: "must be a number"}
	}
	l.PricePerNight = price
	return l, nil
}

// isFalsy treats null, false, 0 and "" as absent. Empty arrays and objects count as present.
func isFalsy(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	}
	return false
}

// decodeNumber accepts a JSON number or a numeric string; the prompt shows the
// price as a quoted placeholder so models emit both.
func decodeNumber(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
