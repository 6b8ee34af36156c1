package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

const draftPrompt = `You write copy for a roofing contractor's local landing page.

City: %s, %s
County: %s

Respond with a single JSON object and nothing else:
{
  "description": "two or three sentences about roofing in this city",
  "weather_note": "one sentence on the local weather that matters for roofs (hail, snow load, UV, wind)",
  "neighborhoods": ["four to six real neighborhood names"],
  "landmarks": ["two to four well known local landmarks"],
  "population": "approximate population, e.g. 120,000",
  "faqs": [{"question": "a question a homeowner in this city would ask", "answer": "a short answer"}]
}

Give two FAQ entries. Do not invent street addresses or phone numbers.`

// Drafter asks the model for a first draft of a location record. Drafts are
// printed for review and never written to the catalog directly.
type Drafter struct {
	client ChatClient
	logger *slog.Logger
}

func NewDrafter(client ChatClient, logger *slog.Logger) *Drafter {
	return &Drafter{client: client, logger: logger}
}

type locationDraft struct {
	Description   string      `json:"description"`
	WeatherNote   string      `json:"weather_note"`
	Neighborhoods []string    `json:"neighborhoods"`
	Landmarks     []string    `json:"landmarks"`
	Population    string      `json:"population"`
	FAQs          []types.FAQ `json:"faqs"`
}

func (d *Drafter) DraftLocation(ctx context.Context, city, state, county string) (*types.LocationData, error) {
	ctx, span := otel.Tracer("Drafter").Start(ctx, "DraftLocation", trace.WithAttributes(
		attribute.String("location.city", city),
		attribute.String("location.state", state),
	))
	defer span.End()

	l := d.logger.With(slog.String("method", "DraftLocation"), slog.String("city", city))

	city, state, county = strings.TrimSpace(city), strings.TrimSpace(state), strings.TrimSpace(county)
	if city == "" {
		return nil, fmt.Errorf("city is required: %w", types.ErrBadRequest)
	}
	if state == "" {
		return nil, fmt.Errorf("state is required: %w", types.ErrBadRequest)
	}

	prompt := fmt.Sprintf(draftPrompt, city, state, county)

	start := time.Now()
	response, err := d.client.GenerateResponse(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.4),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		l.ErrorContext(ctx, "LLM request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "LLM request failed")
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	txt := responseText(response)
	if txt == "" {
		err := fmt.Errorf("empty LLM response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty LLM response")
		return nil, err
	}

	l.DebugContext(ctx, "LLM response received",
		slog.String("model", d.client.Model()),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
		slog.Int("response_length", len(txt)))

	var draft locationDraft
	if err := json.Unmarshal([]byte(cleanJSON(txt)), &draft); err != nil {
		l.ErrorContext(ctx, "Failed to parse LLM JSON response",
			slog.Any("error", err),
			slog.String("response_preview", txt[:min(200, len(txt))]))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid LLM JSON")
		return nil, fmt.Errorf("failed to parse draft for %s: %w", city, err)
	}

	loc := &types.LocationData{
		City:          city,
		State:         state,
		County:        county,
		Slug:          Slugify(city),
		Description:   strings.TrimSpace(draft.Description),
		WeatherNote:   strings.TrimSpace(draft.WeatherNote),
		Neighborhoods: draft.Neighborhoods,
		Landmarks:     draft.Landmarks,
		Population:    strings.TrimSpace(draft.Population),
		FAQs:          draft.FAQs,
	}
	span.SetStatus(codes.Ok, "draft generated")
	return loc, nil
}

func responseText(response *genai.GenerateContentResponse) string {
	if response == nil {
		return ""
	}
	for _, candidate := range response.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			return candidate.Content.Parts[0].Text
		}
	}
	return ""
}

// cleanJSON strips markdown fences the model sometimes adds despite the MIME type.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Slugify lowercases city and joins its words with hyphens: "Castle Rock" -> "castle-rock".
func Slugify(city string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(city) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// MarshalDraft renders loc as a one-element YAML list ready to append to locations.yaml.
func MarshalDraft(loc *types.LocationData) ([]byte, error) {
	out, err := yaml.Marshal([]types.LocationData{*loc})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}
	return out, nil
}
