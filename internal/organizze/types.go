package organizze

// Category is an Organizze expense/revenue category.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "expense" or "revenue"
	Archived bool   `json:"archived"`
}

// Account is an Organizze bank account.
type Account struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"` // "checking" or "savings"
	Archived bool   `json:"archived"`
}

// CreditCard is an Organizze credit card.
type CreditCard struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// Tag labels a transaction in Organizze.
type Tag struct {
	Name string `json:"name"`
}

// Transaction is the ledger's response to a transaction creation.
// Only the assigned ID is read; the raw body is kept for diagnostics.
type Transaction struct {
	ID  int    `json:"id"`
	Raw []byte `json:"-"`
}

// DefaultNotes marks transactions created by the bot.
const DefaultNotes = "Lançamento via Bot"

// botTag is attached to every transaction written by the bot.
const botTag = "Bot"

// Expense is a structured expense ready to be written to the ledger.
// AmountCents is negative for expenses. CreditCardID and AccountID are
// mutually exclusive; if both are set, the credit card wins at
// serialization time.
type Expense struct {
	Description  string
	Date         string // YYYY-MM-DD
	AmountCents  int
	Notes        string
	CategoryID   int
	AccountID    int
	CreditCardID int
}

// Payload builds the JSON body for POST /transactions.
func (e *Expense) Payload() map[string]interface{} {
	notes := e.Notes
	if notes == "" {
		notes = DefaultNotes
	}

	payload := map[string]interface{}{
		"description":  e.Description,
		"date":         e.Date,
		"amount_cents": e.AmountCents,
		"notes":        notes,
		"tags":         []Tag{{Name: botTag}},
	}

	if e.CategoryID != 0 {
		payload["category_id"] = e.CategoryID
	}

	// Account or card, never both.
	if e.CreditCardID != 0 {
		payload["credit_card_id"] = e.CreditCardID
	} else if e.AccountID != 0 {
		payload["account_id"] = e.AccountID
	}

	return payload
}
