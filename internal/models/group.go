package models

import "github.com/SinghAman21/spendsplit/internal/money"

// GroupType distinguishes short-lived groups (a trip) from long-running ones
// (a household).
type GroupType string

const (
	GroupTypeShort GroupType = "SHORT"
	GroupTypeLong  GroupType = "LONG"
)

// Valid reports whether t is one of the known group types.
func (t GroupType) Valid() bool {
	return t == GroupTypeShort || t == GroupTypeLong
}

// MaxGroupMembers is the hard cap on members per group.
const MaxGroupMembers = 32

// DefaultMinFloor is the minimum-debt floor assigned to new groups: balances
// at or below this magnitude are not worth settling.
const DefaultMinFloor = money.Cents(200000) // 2000.00

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Weekend Trip").
	Name string

	// Type is SHORT or LONG term.
	Type GroupType

	// MinFloor is the minimum-debt floor for settlement suggestions.
	MinFloor money.Cents

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// Archived is true when an ArchivedGroup marker exists for this group.
	Archived bool
}

// GroupStats carries the read-side enrichment attached to group responses.
// All fields derive from the group's expenses and membership; nothing here
// is persisted.
type GroupStats struct {
	// TotalTransactions is the number of expenses recorded in the group.
	TotalTransactions int

	// NetAmount is the sum of all expense amounts in the group.
	NetAmount money.Cents

	// MemberCount is the current number of group members.
	MemberCount int

	// LastActivity is the Unix timestamp of the newest expense, 0 if none.
	LastActivity int64
}

// GroupMember is the group/user join record. A user appears at most once per
// group and a group holds at most MaxGroupMembers users.
type GroupMember struct {
	GroupID string
	UserID  string
}

// ArchivedGroup marks a group as inactive. Archiving is an explicit operation;
// there is no automatic policy.
type ArchivedGroup struct {
	GroupID    string
	ArchivedAt int64
}
