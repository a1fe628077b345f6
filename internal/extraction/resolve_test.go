package extraction

import (
	"strings"
	"testing"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

var (
	testToday      = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	testCategories = []organizze.Category{
		{ID: 1, Name: "Lazer", Kind: "expense"},
		{ID: 7, Name: "Mercado", Kind: "expense"},
	}
	testAccounts = []organizze.Account{
		{ID: 3, Name: "Conta Corrente", Type: "checking"},
		{ID: 5, Name: "Poupança", Type: "savings"},
	}
	testCards = []organizze.CreditCard{
		{ID: 9, Name: "Nubank"},
		{ID: 11, Name: "Itaú"},
	}
)

func TestResolveExpenseGroceriesOnAccount(t *testing.T) {
	raw := &modelOutput{
		Description:   "Supermercado",
		Date:          "2024-03-10",
		AmountCents:   -5000,
		HasAmount:     true,
		CategoryName:  "mercado",
		PaymentMethod: "débito",
		AccountName:   "Conta Corrente",
	}

	expense, resolution := resolveExpense(raw, testToday, testCategories, testAccounts, testCards)

	if expense.AmountCents != -5000 {
		t.Errorf("AmountCents = %d, want -5000", expense.AmountCents)
	}
	if expense.Date != "2024-03-10" {
		t.Errorf("Date = %q, want 2024-03-10", expense.Date)
	}
	if expense.CategoryID != 7 {
		t.Errorf("CategoryID = %d, want 7", expense.CategoryID)
	}
	if expense.AccountID != 3 {
		t.Errorf("AccountID = %d, want 3", expense.AccountID)
	}
	if expense.CreditCardID != 0 {
		t.Errorf("CreditCardID = %d, want unset", expense.CreditCardID)
	}
	if resolution.CategoryName != "Mercado" || resolution.AccountName != "Conta Corrente" {
		t.Errorf("resolution = %+v", resolution)
	}
}

func TestResolveExpenseCardPaymentSkipsAccount(t *testing.T) {
	raw := &modelOutput{
		Description:   "Jantar",
		Date:          "2024-03-09",
		AmountCents:   -12000,
		HasAmount:     true,
		PaymentMethod: "cartão de crédito",
		CardName:      "nubank",
		AccountName:   "Conta Corrente", // must be ignored on the card path
	}

	expense, resolution := resolveExpense(raw, testToday, testCategories, testAccounts, testCards)

	if expense.CreditCardID != 9 {
		t.Errorf("CreditCardID = %d, want 9", expense.CreditCardID)
	}
	if expense.AccountID != 0 {
		t.Errorf("AccountID = %d, want unset on card path", expense.AccountID)
	}
	if resolution.CardName != "Nubank" || resolution.AccountName != "" {
		t.Errorf("resolution = %+v", resolution)
	}
}

func TestResolveExpenseUnknownCardFallsBackToFirst(t *testing.T) {
	raw := &modelOutput{
		Description:   "Assinatura",
		PaymentMethod: "crédito",
		CardName:      "Visa Infinite",
	}

	expense, resolution := resolveExpense(raw, testToday, testCategories, testAccounts, testCards)

	if expense.CreditCardID != 9 {
		t.Errorf("CreditCardID = %d, want first card (9)", expense.CreditCardID)
	}
	if resolution.CardName != "Nubank" {
		t.Errorf("resolution.CardName = %q, want Nubank", resolution.CardName)
	}
}

func TestResolveExpenseUnknownAccountFallsBackToFirst(t *testing.T) {
	raw := &modelOutput{
		Description:   "Farmácia",
		PaymentMethod: "pix",
		AccountName:   "Banco Inexistente",
	}

	expense, _ := resolveExpense(raw, testToday, testCategories, testAccounts, testCards)

	if expense.AccountID != 3 {
		t.Errorf("AccountID = %d, want first account (3)", expense.AccountID)
	}
}

func TestResolveExpenseNoCategoryMatch(t *testing.T) {
	raw := &modelOutput{
		Description:  "Doação",
		CategoryName: "Caridade",
	}

	expense, resolution := resolveExpense(raw, testToday, testCategories, testAccounts, testCards)

	if expense.CategoryID != 0 {
		t.Errorf("CategoryID = %d, want unset for unmatched category", expense.CategoryID)
	}
	if resolution.CategoryName != "" {
		t.Errorf("resolution.CategoryName = %q, want empty", resolution.CategoryName)
	}
}

func TestResolveExpenseDefaults(t *testing.T) {
	expense, _ := resolveExpense(&modelOutput{}, testToday, testCategories, testAccounts, testCards)

	if expense.Description != "Gasto" {
		t.Errorf("Description = %q, want Gasto", expense.Description)
	}
	if expense.Date != "2024-03-10" {
		t.Errorf("Date = %q, want today", expense.Date)
	}
	if expense.AmountCents != defaultAmountCents {
		t.Errorf("AmountCents = %d, want %d", expense.AmountCents, defaultAmountCents)
	}
	if expense.Notes != organizze.DefaultNotes {
		t.Errorf("Notes = %q, want default provenance note", expense.Notes)
	}
}

func TestResolveExpenseEmptyDirectory(t *testing.T) {
	raw := &modelOutput{Description: "Gasto", PaymentMethod: "pix", AccountName: "Conta"}

	expense, _ := resolveExpense(raw, testToday, nil, nil, nil)

	if expense.CategoryID != 0 || expense.AccountID != 0 || expense.CreditCardID != 0 {
		t.Errorf("expected no entity resolution with an empty directory, got %+v", expense)
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name      string
		cents     int
		hasAmount bool
		want      int
	}{
		{"negative kept", -5000, true, -5000},
		{"positive negated", 5000, true, -5000},
		{"absent defaults", 0, false, defaultAmountCents},
		{"zero defaults", 0, true, defaultAmountCents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeAmount(tt.cents, tt.hasAmount); got != tt.want {
				t.Errorf("normalizeAmount(%d, %v) = %d, want %d", tt.cents, tt.hasAmount, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	if got := normalizeDate("2024-02-29", testToday); got != "2024-02-29" {
		t.Errorf("valid date rewritten to %q", got)
	}
	for _, bad := range []string{"", "10/03/2024", "ontem", "2024-13-01"} {
		if got := normalizeDate(bad, testToday); got != "2024-03-10" {
			t.Errorf("normalizeDate(%q) = %q, want today", bad, got)
		}
	}
}

func TestIsCreditCardPayment(t *testing.T) {
	cardMethods := []string{"cartão de crédito", "CARTAO", "no crédito", "credit card"}
	for _, m := range cardMethods {
		if !isCreditCardPayment(m) {
			t.Errorf("isCreditCardPayment(%q) = false, want true", m)
		}
	}

	otherMethods := []string{"pix", "débito", "dinheiro", "boleto", ""}
	for _, m := range otherMethods {
		if isCreditCardPayment(m) {
			t.Errorf("isCreditCardPayment(%q) = true, want false", m)
		}
	}
}

func TestBuildPromptGroundsEntities(t *testing.T) {
	prompt := buildPrompt("Gastei 50 reais no supermercado hoje", testToday, testCategories, testAccounts, testCards)

	for _, want := range []string{
		"Data de hoje: 2024-03-10",
		"Gastei 50 reais no supermercado hoje",
		"[7] Mercado",
		"[3] Conta Corrente",
		"[9] Nubank",
		"amount_cents",
		"payment_method",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyDirectory(t *testing.T) {
	prompt := buildPrompt("texto", testToday, nil, nil, nil)
	if !strings.Contains(prompt, "(nenhuma)") || !strings.Contains(prompt, "(nenhum)") {
		t.Error("prompt should mark empty entity lists explicitly")
	}
}
