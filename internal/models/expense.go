package models

import "github.com/SinghAman21/spendsplit/internal/money"

// Expense represents a payment made by one group member on behalf of others.
// Immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// Amount is the full expense amount.
	Amount money.Cents

	// Description is a short free-text label (e.g., "Dinner at Leo's").
	Description string

	// Category is a coarse classification (e.g., "Food", "Travel").
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit represents one participant's share of an expense.
//
// Every participant gets a split row, the payer included; the split amounts
// of an expense sum exactly to the expense amount. Remainder cents from
// uneven division are carried by the payer's split.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID is the expense this split belongs to.
	ExpenseID string

	// UserID is the participant who owes this share.
	UserID string

	// Owed is this participant's share of the expense amount.
	Owed money.Cents
}
