package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/estudai/backend/internal/models"
	"github.com/tidwall/gjson"
)

type generatedItem struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseItems extracts the generated question set from a model response. The
// model sometimes wraps the JSON in markdown fences or prose, so we strip
// fences and then let gjson locate the items array inside whatever remains.
func ParseItems(responseBody string) ([]models.Question, error) {
	cleaned := stripCodeFences(responseBody)

	if !gjson.Valid(cleaned) {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in response")
		}
		cleaned = cleaned[start : end+1]
	}

	itemsJSON := gjson.Get(cleaned, "items")
	if !itemsJSON.IsArray() {
		return nil, fmt.Errorf("response has no items array")
	}

	var raw []generatedItem
	if err := json.Unmarshal([]byte(itemsJSON.Raw), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}

	if err := validateItems(raw); err != nil {
		return nil, err
	}

	items := make([]models.Question, len(raw))
	for i, it := range raw {
		items[i] = models.Question{
			ID:          fmt.Sprintf("gen-%d", i+1),
			Text:        it.Text,
			Options:     it.Options,
			Answer:      it.Answer,
			Explanation: it.Explanation,
		}
	}
	return items, nil
}

func validateItems(items []generatedItem) error {
	var errs []string
	if len(items) == 0 {
		errs = append(errs, "empty item set")
	}
	for i, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			errs = append(errs, fmt.Sprintf("item %d: empty text", i+1))
		}
		if len(it.Options) < 2 {
			errs = append(errs, fmt.Sprintf("item %d: needs at least 2 options", i+1))
		}
		found := false
		for _, opt := range it.Options {
			if opt == it.Answer {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("item %d: answer not among options", i+1))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func buildMockJSON(count int) string {
	items := make([]generatedItem, count)
	for i := range items {
		items[i] = generatedItem{
			Text:        fmt.Sprintf("Questão de exemplo %d: qual alternativa está correta?", i+1),
			Options:     []string{"Alternativa correta", "Distrator um", "Distrator dois", "Distrator três"},
			Answer:      "Alternativa correta",
			Explanation: "A primeira alternativa é a correta neste item de exemplo.",
		}
	}
	data, _ := json.Marshal(map[string]interface{}{"items": items})
	return string(data)
}
