package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelOutput is the raw structured output the model is asked for.
// Names are free text at this point; resolveExpense maps them to IDs.
type modelOutput struct {
	Description   string
	Date          string
	AmountCents   int
	HasAmount     bool
	CategoryName  string
	PaymentMethod string
	CardName      string
	AccountName   string
}

// parseModelOutput parses the model's response into a modelOutput. The
// response must contain exactly one JSON object; optional Markdown code
// fences are stripped first. A parse failure is surfaced, never
// defaulted.
func parseModelOutput(rawText string) (*modelOutput, error) {
	clean := cleanModelJSON(rawText)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return nil, fmt.Errorf("parse model output: %w\nraw response: %s", err, rawText)
	}

	out := &modelOutput{}

	var err error
	if out.Description, err = getStringField(obj, "description"); err != nil {
		return nil, err
	}
	if out.Date, err = getStringField(obj, "date"); err != nil {
		return nil, err
	}
	if out.CategoryName, err = getStringField(obj, "category_name"); err != nil {
		return nil, err
	}
	if out.PaymentMethod, err = getStringField(obj, "payment_method"); err != nil {
		return nil, err
	}
	if out.CardName, err = getStringField(obj, "card_name"); err != nil {
		return nil, err
	}
	if out.AccountName, err = getStringField(obj, "account_name"); err != nil {
		return nil, err
	}

	amount, hasAmount, err := getIntField(obj, "amount_cents")
	if err != nil {
		return nil, err
	}
	out.AmountCents = amount
	out.HasAmount = hasAmount

	return out, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk if the
// model ignored the no-markdown instruction, keeping only the first
// top-level JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

func getStringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	return strings.TrimSpace(s), nil
}

func getIntField(m map[string]interface{}, key string) (int, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch val := v.(type) {
	case float64:
		return int(val), true, nil
	case int: // unlikely from encoding/json, but harmless to support
		return val, true, nil
	default:
		return 0, false, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
