package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

// groupColumns selects a group row together with its archive marker and
// expense/membership aggregates. The correlated subqueries keep listings to
// a single round trip instead of a query per group.
const groupColumns = `
	g.id, g.name, g.type, g.min_floor, g.created_at,
	ag.group_id IS NOT NULL,
	(SELECT COUNT(*) FROM expenses e WHERE e.group_id = g.id),
	(SELECT COALESCE(SUM(e.amount), 0) FROM expenses e WHERE e.group_id = g.id),
	(SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id),
	(SELECT COALESCE(MAX(e.created_at), 0) FROM expenses e WHERE e.group_id = g.id)
`

func scanGroup(row interface {
	Scan(dest ...interface{}) error
}) (*storage.GroupWithStats, error) {
	g := &storage.GroupWithStats{}
	var archived int
	err := row.Scan(
		&g.ID, &g.Name, &g.Type, &g.MinFloor, &g.CreatedAt,
		&archived,
		&g.Stats.TotalTransactions,
		&g.Stats.NetAmount,
		&g.Stats.MemberCount,
		&g.Stats.LastActivity,
	)
	if err != nil {
		return nil, err
	}
	g.Archived = archived != 0
	return g, nil
}

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if !group.Type.Valid() {
		return models.ErrInvalidGroupType
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, type, min_floor, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Type, group.MinFloor, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its stats.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*storage.GroupWithStats, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+
			" FROM groups g LEFT JOIN archived_groups ag ON ag.group_id = g.id WHERE g.id = ?",
		id,
	)
	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves all groups with stats, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*storage.GroupWithStats, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+groupColumns+
			" FROM groups g LEFT JOIN archived_groups ag ON ag.group_id = g.id ORDER BY g.created_at DESC, g.id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*storage.GroupWithStats
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// UpdateGroup updates name, type and min floor of an existing group.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	if !group.Type.Valid() {
		return models.ErrInvalidGroupType
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, type = ?, min_floor = ? WHERE id = ?",
		group.Name, group.Type, group.MinFloor, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ArchiveGroup writes the archive marker for a group. Idempotent.
func (s *SQLiteStore) ArchiveGroup(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO archived_groups (group_id, archived_at) VALUES (?, ?) ON CONFLICT(group_id) DO NOTHING",
		id, time.Now().Unix(),
	)
	if isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to archive group: %w", err)
	}
	return nil
}

// UnarchiveGroup removes the archive marker. Idempotent.
func (s *SQLiteStore) UnarchiveGroup(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM archived_groups WHERE group_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to unarchive group: %w", err)
	}
	return nil
}

// AddGroupMember inserts a membership row, enforcing the member cap in the
// same statement. SQLite serializes writers, so two concurrent joins can
// never both observe room below the cap and both insert.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id)
		 SELECT ?, ?
		 WHERE (SELECT COUNT(*) FROM group_members WHERE group_id = ?) < ?`,
		groupID, userID, groupID, models.MaxGroupMembers,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicateMember
	}
	if isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check member insert result: %w", err)
	}
	if n == 0 {
		return models.ErrGroupFull
	}

	return nil
}

// ListGroupMembers returns the group's members ordered by user ID.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.external_id, u.created_at
		 FROM group_members m JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ? ORDER BY u.id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user := &models.User{}
		var externalID sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &externalID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if externalID.Valid {
			user.ExternalID = externalID.String
		}
		members = append(members, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
