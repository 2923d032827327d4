package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SinghAman21/spendsplit/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	var externalID interface{}
	if user.ExternalID != "" {
		externalID = user.ExternalID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, external_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, externalID, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByName retrieves a user by display name.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return s.getUserWhere(ctx, "name = ?", name)
}

func (s *SQLiteStore) getUserWhere(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	var externalID sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, external_id, created_at FROM users WHERE "+where,
		arg,
	).Scan(&user.ID, &user.Name, &user.Email, &externalID, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if externalID.Valid {
		user.ExternalID = externalID.String
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Returns a map of user ID to User object.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	if len(ids) == 0 {
		return make(map[string]*models.User), nil
	}

	query := `SELECT id, name, email, external_id, created_at
		 FROM users WHERE id IN (?` + repeatPlaceholder(len(ids)-1) + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*models.User)
	for rows.Next() {
		user := &models.User{}
		var externalID sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &externalID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if externalID.Valid {
			user.ExternalID = externalID.String
		}
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpsertExternalUser creates or refreshes the user synced from the identity
// provider, keyed by the provider subject.
func (s *SQLiteStore) UpsertExternalUser(ctx context.Context, externalID, name, email string) (*models.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external ID required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, external_id, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(external_id) DO UPDATE SET name = excluded.name, email = excluded.email`,
		uuid.New().String(), name, email, externalID, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return s.getUserWhere(ctx, "external_id = ?", externalID)
}

// ListUsers returns all users ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, external_id, created_at FROM users ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var externalID sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &externalID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if externalID.Valid {
			user.ExternalID = externalID.String
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
