package organizze

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// API is the subset of the Organizze client used by the directory.
// It exists so tests can substitute the remote API.
type API interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	ListCreditCards(ctx context.Context) ([]CreditCard, error)
}

// Directory is a process-wide read-through cache of the ledger's
// categories, accounts and credit cards. Each entity type is fetched at
// most once until forceRefresh is requested. A fetch failure is logged
// and degrades to an empty list rather than failing the caller; the slot
// stays unpopulated so a later call retries.
//
// Safe for concurrent readers; refresh replaces a slot atomically under
// the lock.
type Directory struct {
	api API
	log zerolog.Logger

	mu          sync.RWMutex
	categories  []Category
	accounts    []Account
	creditCards []CreditCard
	catLoaded   bool
	accLoaded   bool
	cardLoaded  bool
}

// NewDirectory creates a directory backed by the given API.
func NewDirectory(api API, log zerolog.Logger) *Directory {
	return &Directory{api: api, log: log}
}

// Categories returns the cached categories, fetching them on first use.
func (d *Directory) Categories(ctx context.Context, forceRefresh bool) []Category {
	d.mu.RLock()
	if d.catLoaded && !forceRefresh {
		categories := d.categories
		d.mu.RUnlock()
		return categories
	}
	d.mu.RUnlock()

	categories, err := d.api.ListCategories(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to fetch categories, degrading to empty list")
		return nil
	}

	d.mu.Lock()
	d.categories = categories
	d.catLoaded = true
	d.mu.Unlock()
	return categories
}

// Accounts returns the cached bank accounts, fetching them on first use.
func (d *Directory) Accounts(ctx context.Context, forceRefresh bool) []Account {
	d.mu.RLock()
	if d.accLoaded && !forceRefresh {
		accounts := d.accounts
		d.mu.RUnlock()
		return accounts
	}
	d.mu.RUnlock()

	accounts, err := d.api.ListAccounts(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to fetch accounts, degrading to empty list")
		return nil
	}

	d.mu.Lock()
	d.accounts = accounts
	d.accLoaded = true
	d.mu.Unlock()
	return accounts
}

// CreditCards returns the cached credit cards, fetching them on first use.
func (d *Directory) CreditCards(ctx context.Context, forceRefresh bool) []CreditCard {
	d.mu.RLock()
	if d.cardLoaded && !forceRefresh {
		cards := d.creditCards
		d.mu.RUnlock()
		return cards
	}
	d.mu.RUnlock()

	cards, err := d.api.ListCreditCards(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to fetch credit cards, degrading to empty list")
		return nil
	}

	d.mu.Lock()
	d.creditCards = cards
	d.cardLoaded = true
	d.mu.Unlock()
	return cards
}

// FindCategory resolves a category by name: exact case-insensitive match
// first, then substring match in either direction. Returns false when the
// name matches nothing.
func FindCategory(categories []Category, name string) (Category, bool) {
	idx := matchName(len(categories), func(i int) string { return categories[i].Name }, name)
	if idx < 0 {
		return Category{}, false
	}
	return categories[idx], true
}

// FindAccount resolves a bank account by name using the shared matching
// policy.
func FindAccount(accounts []Account, name string) (Account, bool) {
	idx := matchName(len(accounts), func(i int) string { return accounts[i].Name }, name)
	if idx < 0 {
		return Account{}, false
	}
	return accounts[idx], true
}

// FindCreditCard resolves a credit card by name using the shared matching
// policy.
func FindCreditCard(cards []CreditCard, name string) (CreditCard, bool) {
	idx := matchName(len(cards), func(i int) string { return cards[i].Name }, name)
	if idx < 0 {
		return CreditCard{}, false
	}
	return cards[idx], true
}

// matchName is the shared name-resolution policy: exact case-insensitive
// match wins, otherwise the first entry whose name contains the query or
// is contained by it. Returns -1 when nothing matches or the query is
// empty.
func matchName(n int, nameAt func(int) string, query string) int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return -1
	}

	for i := 0; i < n; i++ {
		if strings.ToLower(nameAt(i)) == query {
			return i
		}
	}
	for i := 0; i < n; i++ {
		name := strings.ToLower(nameAt(i))
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return i
		}
	}
	return -1
}
