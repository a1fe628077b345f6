// Package extraction turns a spoken-expense transcript into a structured
// expense, grounded on the ledger's own categories, accounts and cards.
package extraction

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// Resolution carries the display names of the entities the extracted
// expense was resolved against, for the user-facing summary.
type Resolution struct {
	CategoryName string
	CardName     string
	AccountName  string
}

// Extractor extracts a structured expense from a transcript. The current
// date anchors relative dates the model may infer ("hoje", "ontem").
type Extractor interface {
	Extract(ctx context.Context, transcript string, today time.Time) (*organizze.Expense, *Resolution, error)
}

// GeminiExtractor extracts expenses with a Gemini model, prompting it
// with the ledger directory so it picks from valid entities instead of
// inventing names.
type GeminiExtractor struct {
	client *genai.Client
	model  string
	dir    *organizze.Directory
}

// NewGeminiExtractor creates an extractor using the given model and
// ledger directory.
func NewGeminiExtractor(ctx context.Context, apiKey, model string, dir *organizze.Directory) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiExtractor: create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model, dir: dir}, nil
}

// Extract implements the Extractor interface.
func (e *GeminiExtractor) Extract(ctx context.Context, transcript string, today time.Time) (*organizze.Expense, *Resolution, error) {
	categories := e.dir.Categories(ctx, false)
	accounts := e.dir.Accounts(ctx, false)
	cards := e.dir.CreditCards(ctx, false)

	prompt := buildPrompt(transcript, today, categories, accounts, cards)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	// Temperature 0 keeps the structured output deterministic.
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("Extract: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, nil, fmt.Errorf("Extract: empty response from model")
	}

	raw, err := parseModelOutput(rawText)
	if err != nil {
		return nil, nil, fmt.Errorf("Extract: %w", err)
	}

	expense, resolution := resolveExpense(raw, today, categories, accounts, cards)
	return expense, resolution, nil
}
