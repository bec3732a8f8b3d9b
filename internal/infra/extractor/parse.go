package extractor

import (
	"encoding/json"
	"log/slog"
	"strings"

	"opportunity-scout/internal/domain/entity"
)

// parseOpportunities turns a model response into candidates. The parser is
// deliberately lenient: code fences and surrounding prose are stripped, and
// a malformed response yields an empty slice with a warning log instead of
// an error. Items with no title or an unknown type are dropped; locations
// and categories are normalized.
func parseOpportunities(raw string, categories []string) []entity.ParsedOpportunity {
	payload := extractJSONArray(raw)
	if payload == "" {
		slog.Warn("model response contains no JSON array",
			slog.Int("response_length", len(raw)))
		return nil
	}

	var items []entity.ParsedOpportunity
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		slog.Warn("failed to parse model response as opportunity array",
			slog.Int("payload_length", len(payload)),
			slog.Any("error", err))
		return nil
	}

	out := make([]entity.ParsedOpportunity, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			continue
		}
		if !item.Type.Valid() {
			slog.Debug("dropping candidate with unknown type",
				slog.String("title", item.Title),
				slog.String("type", string(item.Type)))
			continue
		}
		if strings.TrimSpace(item.Location) == "" {
			item.Location = "Not Specified"
		}
		item.Category = NormalizeCategory(item.Category, categories)
		out = append(out, item)
	}
	return out
}

// extractJSONArray isolates the first top-level JSON array in the response.
// Models occasionally wrap the array in markdown fences or lead-in text
// despite instructions.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
