package community

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Community struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creatorId"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Status          Status    `json:"status"`
	ReviewedBy      string    `json:"reviewedBy,omitempty"`
	ReviewNote      string    `json:"reviewNote,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	MemberCount     int       `json:"memberCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

const communityColumns = `
c.id, c.creator_id, c.name, COALESCE(c.description,''), COALESCE(c.category,''), c.status,
COALESCE(c.reviewed_by::text,''), COALESCE(c.review_note,''), COALESCE(c.rejection_reason,''),
(SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id), c.created_at`

func scanCommunity(row pgx.Row) (*Community, error) {
	var c Community
	if err := row.Scan(
		&c.ID, &c.CreatorID, &c.Name, &c.Description, &c.Category, &c.Status,
		&c.ReviewedBy, &c.ReviewNote, &c.RejectionReason, &c.MemberCount, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, creatorID, name, description, category string) (*Community, error) {
	const q = `
WITH ins AS (
  INSERT INTO communities (creator_id, name, description, category, status)
  VALUES ($1, $2, $3, $4, 'pending')
  RETURNING *
)
SELECT ` + communityColumns + `
FROM ins c
`
	c, err := scanCommunity(r.db.QueryRow(ctx, q, creatorID, name, description, category))
	if err != nil {
		return nil, err
	}
	// The creator is a member from day one.
	const qm = `INSERT INTO community_members (community_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, qm, c.ID, creatorID); err != nil {
		return nil, err
	}
	c.MemberCount = 1
	return c, nil
}

// ListApproved backs the public listing: approved communities only.
func (r *Repository) ListApproved(ctx context.Context) ([]Community, error) {
	const q = `
SELECT ` + communityColumns + `
FROM communities c
WHERE c.status = 'approved'
ORDER BY c.name ASC
`
	return r.list(ctx, q)
}

func (r *Repository) ListPending(ctx context.Context) ([]Community, error) {
	const q = `
SELECT ` + communityColumns + `
FROM communities c
WHERE c.status = 'pending'
ORDER BY c.created_at ASC
`
	return r.list(ctx, q)
}

func (r *Repository) ListByCreator(ctx context.Context, creatorID string) ([]Community, error) {
	const q = `
SELECT ` + communityColumns + `
FROM communities c
WHERE c.creator_id = $1
ORDER BY c.created_at DESC
`
	return r.list(ctx, q, creatorID)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Community, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Community, error) {
	const q = `
SELECT ` + communityColumns + `
FROM communities c
WHERE c.id = $1
`
	return scanCommunity(r.db.QueryRow(ctx, q, id))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Community, error) {
	const q = `
SELECT ` + communityColumns + `
FROM communities c
WHERE c.id = $1
FOR UPDATE OF c
`
	return scanCommunity(tx.QueryRow(ctx, q, id))
}

func SetDecision(ctx context.Context, tx pgx.Tx, id string, decision Status, reviewerID, note, rejectionReason string) error {
	const q = `
UPDATE communities
SET status = $2,
    reviewed_by = $3::uuid,
    review_note = NULLIF($4,''),
    rejection_reason = NULLIF($5,''),
    reviewed_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(decision), reviewerID, note, rejectionReason)
	return err
}

func (r *Repository) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`
	var ok bool
	err := r.db.QueryRow(ctx, q, communityID, userID).Scan(&ok)
	return ok, err
}

func (r *Repository) AddMember(ctx context.Context, communityID, userID string) error {
	const q = `INSERT INTO community_members (community_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(ctx, q, communityID, userID)
	return err
}

func (r *Repository) RemoveMember(ctx context.Context, communityID, userID string) error {
	const q = `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, q, communityID, userID)
	return err
}
