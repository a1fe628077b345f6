package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

func TestExtractedSectionAccount(t *testing.T) {
	expense := &organizze.Expense{Description: "Supermercado", Date: "2024-03-10", AmountCents: -5000}
	resolution := &extraction.Resolution{CategoryName: "Mercado", AccountName: "Conta Corrente"}

	section := extractedSection(expense, resolution)

	for _, want := range []string{"💰 R$ 50.00", "📝 Supermercado", "📅 2024-03-10", "📂 Categoria: Mercado", "🏦 Conta: Conta Corrente"} {
		if !strings.Contains(section, want) {
			t.Errorf("section missing %q:\n%s", want, section)
		}
	}
	if strings.Contains(section, "Cartão") {
		t.Error("account expense must not mention a card")
	}
}

func TestExtractedSectionCardWinsOverAccount(t *testing.T) {
	expense := &organizze.Expense{Description: "Jantar", Date: "2024-03-09", AmountCents: -12050}
	resolution := &extraction.Resolution{CardName: "Nubank", AccountName: "Conta Corrente"}

	section := extractedSection(expense, resolution)

	if !strings.Contains(section, "💳 Cartão: Nubank") {
		t.Errorf("section should name the card:\n%s", section)
	}
	if strings.Contains(section, "Conta:") {
		t.Error("card expense must not mention an account")
	}
	if !strings.Contains(section, "R$ 120.50") {
		t.Errorf("amount should be rendered as positive reais:\n%s", section)
	}
}

func TestExtractedSectionNoEntities(t *testing.T) {
	expense := &organizze.Expense{Description: "Gasto", Date: "2024-03-10", AmountCents: -1000}

	section := extractedSection(expense, &extraction.Resolution{})

	if strings.Contains(section, "Categoria") || strings.Contains(section, "Cartão") || strings.Contains(section, "Conta") {
		t.Errorf("section should omit unresolved entities:\n%s", section)
	}
}

func TestFinalReportJoinsWithBlankLines(t *testing.T) {
	report := finalReport([]string{"a", "b", "c"})
	if report != "a\n\nb\n\nc" {
		t.Errorf("finalReport = %q", report)
	}
}

func TestFormatError(t *testing.T) {
	msg := FormatError(errors.New("transcription failed: boom"))
	if msg != "❌ transcription failed: boom" {
		t.Errorf("FormatError = %q", msg)
	}
}
