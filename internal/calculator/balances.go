// Package calculator implements the fairness core: balance composition over
// aggregated paid/owed totals and greedy settlement proposals.
//
// Everything here is pure arithmetic over values fetched by the caller, so
// results are an idempotent function of stored data.
package calculator

import (
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string
	Name       string
	NetBalance money.Cents // Positive = owed money, Negative = owes money
	TotalPaid  money.Cents // Total amount paid within the window
	TotalOwed  money.Cents // Total amount owed across splits within the window
}

// ComputeBalances derives each member's net balance from the per-user paid
// and owed aggregates: net = paid - owed. Members with no activity get a
// zero balance. The result preserves the order of members, which storage
// returns sorted by user ID, so output is deterministic.
func ComputeBalances(members []*models.User, paid, owed map[string]money.Cents) []MemberBalance {
	balances := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		b := MemberBalance{
			UserID:    m.ID,
			Name:      m.Name,
			TotalPaid: paid[m.ID],
			TotalOwed: owed[m.ID],
		}
		b.NetBalance = b.TotalPaid - b.TotalOwed
		balances = append(balances, b)
	}
	return balances
}
