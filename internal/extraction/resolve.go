package extraction

import (
	"strings"
	"time"

	"github.com/mauricioolv87/ai-telegram/internal/organizze"
)

// defaultAmountCents is used when the transcript mentions no amount.
const defaultAmountCents = -1000

// creditCardKeywords mark a payment method as a credit-card payment.
var creditCardKeywords = []string{"cartão", "cartao", "crédito", "credito", "card"}

// resolveExpense normalizes the model output into an Expense and resolves
// named entities to ledger IDs.
//
// Policy: the category is optional (no match means no category). The
// payment side always resolves to something when the directory has
// entries: an unmatched card or account name falls back to the first
// entry of the respective list. A card payment skips account resolution
// entirely, so the two IDs stay mutually exclusive by construction.
func resolveExpense(raw *modelOutput, today time.Time, categories []organizze.Category, accounts []organizze.Account, cards []organizze.CreditCard) (*organizze.Expense, *Resolution) {
	expense := &organizze.Expense{
		Description: raw.Description,
		Date:        normalizeDate(raw.Date, today),
		AmountCents: normalizeAmount(raw.AmountCents, raw.HasAmount),
		Notes:       organizze.DefaultNotes,
	}
	if expense.Description == "" {
		expense.Description = "Gasto"
	}

	resolution := &Resolution{}

	if cat, ok := organizze.FindCategory(categories, raw.CategoryName); ok {
		expense.CategoryID = cat.ID
		resolution.CategoryName = cat.Name
	}

	if isCreditCardPayment(raw.PaymentMethod) {
		if card, ok := organizze.FindCreditCard(cards, raw.CardName); ok {
			expense.CreditCardID = card.ID
			resolution.CardName = card.Name
		} else if len(cards) > 0 {
			expense.CreditCardID = cards[0].ID
			resolution.CardName = cards[0].Name
		}
		return expense, resolution
	}

	if acc, ok := organizze.FindAccount(accounts, raw.AccountName); ok {
		expense.AccountID = acc.ID
		resolution.AccountName = acc.Name
	} else if len(accounts) > 0 {
		expense.AccountID = accounts[0].ID
		resolution.AccountName = accounts[0].Name
	}

	return expense, resolution
}

// normalizeAmount enforces the sign convention: expenses are always
// negative. The model is instructed to return negative cents, but a
// positive value is negated rather than trusted.
func normalizeAmount(cents int, hasAmount bool) int {
	if !hasAmount || cents == 0 {
		return defaultAmountCents
	}
	if cents > 0 {
		return -cents
	}
	return cents
}

// normalizeDate validates the model's date and falls back to today when
// it is absent or malformed.
func normalizeDate(date string, today time.Time) string {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return today.Format("2006-01-02")
	}
	return date
}

// isCreditCardPayment reports whether the payment method text refers to
// a credit card.
func isCreditCardPayment(paymentMethod string) bool {
	method := strings.ToLower(paymentMethod)
	for _, keyword := range creditCardKeywords {
		if strings.Contains(method, keyword) {
			return true
		}
	}
	return false
}
