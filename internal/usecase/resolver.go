package usecase

import (
	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// StaticAccountResolver routes trades to accounts. Account identity is taken
// from the event when present, then from a configured symbol routing table,
// then from the default account.
type StaticAccountResolver struct {
	routes         map[string]string
	defaultAccount string
}

// NewStaticAccountResolver creates a resolver from a symbol->account table.
func NewStaticAccountResolver(routes map[string]string, defaultAccount string) *StaticAccountResolver {
	return &StaticAccountResolver{
		routes:         routes,
		defaultAccount: defaultAccount,
	}
}

// Resolve returns the account the trade settles against.
func (r *StaticAccountResolver) Resolve(trade *domain.TradeEvent) string {
	if trade.AccountID != "" {
		return trade.AccountID
	}

	if account, ok := r.routes[trade.Symbol]; ok {
		return account
	}

	return r.defaultAccount
}
