package postgres

import (
	"context"
	"errors"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// Create inserts the workspace and its owner's membership row in one
// transaction, so owner-in-members holds from the first committed state.
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (title, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		workspace.Title, workspace.Description, workspace.OwnerID,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id)
		VALUES ($1, $2)`,
		workspace.ID, workspace.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return workspace, nil
}

// GetByID retrieves a workspace with its member refs and card IDs resolved
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	ctx := context.Background()

	workspace := &domain.Workspace{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, owner_id, created_at, updated_at
		FROM workspaces WHERE id = $1`, id,
	).Scan(&workspace.ID, &workspace.Title, &workspace.Description,
		&workspace.OwnerID, &workspace.CreatedAt, &workspace.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}

	members, err := r.loadMembers(ctx, []int32{id})
	if err != nil {
		return nil, err
	}
	workspace.Members = members[id]
	r.resolveOwner(workspace)

	rows, err := r.pool.Query(ctx, `
		SELECT id FROM cards WHERE workspace_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspace.CardIDs = []int32{}
	for rows.Next() {
		var cardID int32
		if err := rows.Scan(&cardID); err != nil {
			return nil, err
		}
		workspace.CardIDs = append(workspace.CardIDs, cardID)
	}
	return workspace, rows.Err()
}

// ListByMember returns all workspaces where the user is a member, most
// recently updated first
func (r *WorkspaceRepository) ListByMember(userID uuid.UUID) ([]*domain.Workspace, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.title, w.description, w.owner_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspaces := []*domain.Workspace{}
	ids := []int32{}
	for rows.Next() {
		workspace := &domain.Workspace{}
		err := rows.Scan(&workspace.ID, &workspace.Title, &workspace.Description,
			&workspace.OwnerID, &workspace.CreatedAt, &workspace.UpdatedAt)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, workspace)
		ids = append(ids, workspace.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, workspace := range workspaces {
		workspace.Members = members[workspace.ID]
		r.resolveOwner(workspace)
	}
	return workspaces, nil
}

// AddMember appends a user to the workspace member set
func (r *WorkspaceRepository) AddMember(workspaceID int32, userID uuid.UUID) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id)
		VALUES ($1, $2)`,
		workspaceID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyMember
		}
		return err
	}

	_, err = r.pool.Exec(ctx, `UPDATE workspaces SET updated_at = now() WHERE id = $1`, workspaceID)
	return err
}

// RemoveMember removes a user from the workspace member set
func (r *WorkspaceRepository) RemoveMember(workspaceID int32, userID uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAMember
	}

	_, err = r.pool.Exec(ctx, `UPDATE workspaces SET updated_at = now() WHERE id = $1`, workspaceID)
	return err
}

// loadMembers resolves member refs for a set of workspaces in one query
func (r *WorkspaceRepository) loadMembers(ctx context.Context, workspaceIDs []int32) (map[int32][]domain.UserRef, error) {
	members := make(map[int32][]domain.UserRef, len(workspaceIDs))
	if len(workspaceIDs) == 0 {
		return members, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT m.workspace_id, u.id, u.name, u.email
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = ANY($1)
		ORDER BY m.added_at`, workspaceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var workspaceID int32
		var ref domain.UserRef
		if err := rows.Scan(&workspaceID, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		members[workspaceID] = append(members[workspaceID], ref)
	}
	return members, rows.Err()
}

// resolveOwner fills the workspace's Owner ref from its member set. The owner
// is always a member, so the lookup never misses.
func (r *WorkspaceRepository) resolveOwner(workspace *domain.Workspace) {
	for _, member := range workspace.Members {
		if member.ID == workspace.OwnerID {
			workspace.Owner = member
			return
		}
	}
}
