// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
)

// GroupWithStats pairs a group with its read-side enrichment so listings can
// be served from a single query.
type GroupWithStats struct {
	models.Group
	Stats models.GroupStats
}

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns models.ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetUserByName retrieves a user by display name.
	GetUserByName(ctx context.Context, name string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Users that don't
	// exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpsertExternalUser creates or updates the user with the given identity
	// provider subject, refreshing name and email, and returns it.
	UpsertExternalUser(ctx context.Context, externalID, name, email string) (*models.User, error)

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group. ID and CreatedAt are populated by
	// the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its stats.
	GetGroup(ctx context.Context, id string) (*GroupWithStats, error)

	// ListGroups returns all groups with stats, newest first, in one query.
	ListGroups(ctx context.Context) ([]*GroupWithStats, error)

	// UpdateGroup updates name, type and min floor of an existing group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// ArchiveGroup writes the one-to-one archive marker. Idempotent.
	ArchiveGroup(ctx context.Context, id string) error

	// UnarchiveGroup removes the archive marker. Idempotent.
	UnarchiveGroup(ctx context.Context, id string) error

	// AddGroupMember inserts a membership row. The member cap is enforced in
	// the same statement as the insert, so concurrent joins cannot exceed it.
	// Returns models.ErrGroupFull, models.ErrDuplicateMember or
	// models.ErrNotFound as appropriate.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupMembers returns the group's members ordered by user ID.
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// CreateExpense persists an expense and all of its splits in one
	// transaction. Split amounts must sum exactly to the expense amount
	// (models.ErrSplitMismatch otherwise); on any failure nothing is written.
	CreateExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit) error

	// ListGroupExpenses returns a group's expenses, newest first.
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// SumPaidByMember aggregates expense amounts by payer for expenses
	// created in [from, to).
	SumPaidByMember(ctx context.Context, groupID string, from, to int64) (map[string]money.Cents, error)

	// SumOwedByMember aggregates split amounts by debtor for expenses
	// created in [from, to).
	SumOwedByMember(ctx context.Context, groupID string, from, to int64) (map[string]money.Cents, error)

	// CountExpensesByPayer counts expenses by payer for [from, to).
	CountExpensesByPayer(ctx context.Context, groupID string, from, to int64) (map[string]int, error)

	// Close releases any resources held by the store.
	Close() error
}
