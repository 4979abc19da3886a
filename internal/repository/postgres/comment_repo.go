package postgres

import (
	"context"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository implements domain.CommentRepository using PostgreSQL
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a comment and resolves the author's identity
func (r *CommentRepository) Create(comment *domain.Comment) (*domain.Comment, error) {
	err := r.pool.QueryRow(context.Background(), `
		INSERT INTO card_comments (card_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		comment.CardID, comment.UserID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(context.Background(), `
		SELECT id, name, email FROM users WHERE id = $1`, comment.UserID,
	).Scan(&comment.User.ID, &comment.User.Name, &comment.User.Email)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByCard returns the card's comments with authors resolved, oldest first
func (r *CommentRepository) ListByCard(cardID int32) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT c.id, c.card_id, c.user_id, c.content, c.created_at,
		       u.id, u.name, u.email
		FROM card_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.card_id = $1
		ORDER BY c.created_at`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment := &domain.Comment{}
		if err := rows.Scan(
			&comment.ID, &comment.CardID, &comment.UserID, &comment.Content, &comment.CreatedAt,
			&comment.User.ID, &comment.User.Name, &comment.User.Email,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
