package calculator

import (
	"sort"

	"github.com/SinghAman21/spendsplit/internal/money"
)

// Settlement represents a proposed payment from one debtor to one creditor.
type Settlement struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   money.Cents
}

// party is one side of the matching: Amount is always positive, whether the
// party is owed money or owes it.
type party struct {
	id     string
	name   string
	amount money.Cents
}

// SuggestSettlements proposes payments that zero out all balances beyond the
// minimum-debt floor.
//
// Creditors (balance > floor) and debtors (balance < -floor) are each sorted
// largest first, with equal amounts tie-broken by user ID for stable output.
// The largest debtor then pays the largest creditor min(debt, credit), and
// any party whose remainder falls to or below the floor drops out. This
// yields at most creditors+debtors-1 transfers, fewer than pairwise
// settlement.
func SuggestSettlements(balances []MemberBalance, floor money.Cents) []Settlement {
	if floor < 0 {
		floor = 0
	}

	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.NetBalance > floor:
			creditors = append(creditors, party{id: b.UserID, name: b.Name, amount: b.NetBalance})
		case b.NetBalance < -floor:
			debtors = append(debtors, party{id: b.UserID, name: b.Name, amount: -b.NetBalance})
		}
	}

	byAmountDesc := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmountDesc(creditors))
	sort.Slice(debtors, byAmountDesc(debtors))

	var settlements []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > 0 {
			settlements = append(settlements, Settlement{
				FromID:   debtors[i].id,
				FromName: debtors[i].name,
				ToID:     creditors[j].id,
				ToName:   creditors[j].name,
				Amount:   amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		// The transfer zeroes at least one side, so the loop always advances.
		if debtors[i].amount <= floor {
			i++
		}
		if creditors[j].amount <= floor {
			j++
		}
	}

	return settlements
}
