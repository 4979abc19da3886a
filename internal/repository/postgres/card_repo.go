package postgres

import (
	"context"
	"errors"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CardRepository implements domain.CardRepository using PostgreSQL
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

// Create inserts a card and its assignee rows in one transaction
func (r *CardRepository) Create(card *domain.Card, assignees []uuid.UUID) (*domain.Card, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO cards (workspace_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version, created_at, updated_at`,
		card.WorkspaceID, card.Title, card.Description, card.Status,
	).Scan(&card.ID, &card.Version, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, userID := range assignees {
		_, err = tx.Exec(ctx, `
			INSERT INTO card_assignees (card_id, user_id) VALUES ($1, $2)`,
			card.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.withAssignees(ctx, card)
}

// GetByID retrieves a card with its assignee refs resolved
func (r *CardRepository) GetByID(id int32) (*domain.Card, error) {
	ctx := context.Background()

	card := &domain.Card{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, workspace_id, title, description, status, version, created_at, updated_at
		FROM cards WHERE id = $1`, id,
	).Scan(&card.ID, &card.WorkspaceID, &card.Title, &card.Description,
		&card.Status, &card.Version, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return r.withAssignees(ctx, card)
}

// Update persists the card's mutable fields and replaces its assignee set,
// bumping the version
func (r *CardRepository) Update(card *domain.Card, assignees []uuid.UUID) (*domain.Card, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE cards
		SET title = $1, description = $2, status = $3, version = version + 1, updated_at = now()
		WHERE id = $4
		RETURNING version, updated_at`,
		card.Title, card.Description, card.Status, card.ID,
	).Scan(&card.Version, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM card_assignees WHERE card_id = $1`, card.ID)
	if err != nil {
		return nil, err
	}
	for _, userID := range assignees {
		_, err = tx.Exec(ctx, `
			INSERT INTO card_assignees (card_id, user_id) VALUES ($1, $2)`,
			card.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.withAssignees(ctx, card)
}

// Delete removes a card. Assignee rows and the workspace's card list follow
// via cascading foreign keys.
func (r *CardRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// ListByWorkspace returns all cards for a workspace in creation order, with
// assignee identities resolved
func (r *CardRepository) ListByWorkspace(workspaceID int32) ([]*domain.Card, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, workspace_id, title, description, status, version, created_at, updated_at
		FROM cards WHERE workspace_id = $1
		ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*domain.Card{}
	ids := []int32{}
	for rows.Next() {
		card := &domain.Card{}
		err := rows.Scan(&card.ID, &card.WorkspaceID, &card.Title, &card.Description,
			&card.Status, &card.Version, &card.CreatedAt, &card.UpdatedAt)
		if err != nil {
			return nil, err
		}
		card.Assignees = []domain.UserRef{}
		cards = append(cards, card)
		ids = append(ids, card.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assignees, err := r.loadAssignees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		if refs, ok := assignees[card.ID]; ok {
			card.Assignees = refs
		}
	}
	return cards, nil
}

// withAssignees loads the card's assignee refs
func (r *CardRepository) withAssignees(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	assignees, err := r.loadAssignees(ctx, []int32{card.ID})
	if err != nil {
		return nil, err
	}
	card.Assignees = assignees[card.ID]
	if card.Assignees == nil {
		card.Assignees = []domain.UserRef{}
	}
	return card, nil
}

// loadAssignees resolves assignee refs for a set of cards in one query
func (r *CardRepository) loadAssignees(ctx context.Context, cardIDs []int32) (map[int32][]domain.UserRef, error) {
	assignees := make(map[int32][]domain.UserRef, len(cardIDs))
	if len(cardIDs) == 0 {
		return assignees, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.card_id, u.id, u.name, u.email
		FROM card_assignees a
		JOIN users u ON u.id = a.user_id
		WHERE a.card_id = ANY($1)
		ORDER BY u.name`, cardIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cardID int32
		var ref domain.UserRef
		if err := rows.Scan(&cardID, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		assignees[cardID] = append(assignees[cardID], ref)
	}
	return assignees, rows.Err()
}
