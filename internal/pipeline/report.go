package pipeline

import (
	"fmt"
	"strings"

	"github.com/mauricioolv87/ai-telegram/internal/extraction"
	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// confirmationSection closes a successful run.
const confirmationSection = "✅ Gasto registrado no Organizze!"

// transcriptSection echoes the transcript back to the user.
func transcriptSection(transcript string) string {
	return fmt.Sprintf("✅ Transcrição: %s", transcript)
}

// extractedSection summarizes the extracted expense: amount, description,
// date and the resolved category and payment method.
func extractedSection(expense *organizze.Expense, resolution *extraction.Resolution) string {
	amount := float64(expense.AmountCents) / 100
	if amount < 0 {
		amount = -amount
	}

	parts := []string{
		"✅ Dados extraídos:",
		fmt.Sprintf("💰 R$ %.2f", amount),
		fmt.Sprintf("📝 %s", expense.Description),
		fmt.Sprintf("📅 %s", expense.Date),
	}

	if resolution != nil {
		if resolution.CategoryName != "" {
			parts = append(parts, fmt.Sprintf("📂 Categoria: %s", resolution.CategoryName))
		}
		if resolution.CardName != "" {
			parts = append(parts, fmt.Sprintf("💳 Cartão: %s", resolution.CardName))
		} else if resolution.AccountName != "" {
			parts = append(parts, fmt.Sprintf("🏦 Conta: %s", resolution.AccountName))
		}
	}

	return strings.Join(parts, "\n")
}

// finalReport joins the report sections with blank lines.
func finalReport(sections []string) string {
	return strings.Join(sections, "\n\n")
}

// FormatError formats a pipeline failure for the user. The caller always
// receives a single message, either this or the success report.
func FormatError(err error) string {
	return fmt.Sprintf("❌ %s", err)
}
