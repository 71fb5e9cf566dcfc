package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

// Store persists session records in the blitz_sessions table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed session store. Run Migrate first to
// ensure the schema exists.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ session.Store = (*Store)(nil)

// querier is satisfied by both the pool and a pgx.Tx, letting store
// operations join a caller transaction placed in the context via WithTx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

const recordColumns = `handle, user_id, expires_at, hashed_session_token, anti_csrf_token, public_data, private_data, created_at, updated_at`

func scanRecord(row pgx.Row) (*session.Record, error) {
	var rec session.Record
	err := row.Scan(
		&rec.Handle,
		&rec.UserID,
		&rec.ExpiresAt,
		&rec.HashedSessionToken,
		&rec.AntiCSRFToken,
		&rec.PublicData,
		&rec.PrivateData,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Get(ctx context.Context, handle string) (*session.Record, error) {
	row := s.q(ctx).QueryRow(ctx,
		`SELECT `+recordColumns+` FROM blitz_sessions WHERE handle = $1`, handle)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get session: %w", err)
	}
	return rec, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) ([]*session.Record, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+recordColumns+` FROM blitz_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: list user sessions: %w", err)
	}
	defer rows.Close()

	var out []*session.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list user sessions: %w", err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, rec *session.Record) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO blitz_sessions (handle, user_id, expires_at, hashed_session_token, anti_csrf_token, public_data, private_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (handle) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at,
			hashed_session_token = EXCLUDED.hashed_session_token,
			anti_csrf_token = EXCLUDED.anti_csrf_token,
			public_data = EXCLUDED.public_data,
			private_data = EXCLUDED.private_data,
			updated_at = now()`,
		rec.Handle, rec.UserID, rec.ExpiresAt, rec.HashedSessionToken,
		rec.AntiCSRFToken, rec.PublicData, rec.PrivateData)
	if err != nil {
		return fmt.Errorf("pg: create session: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, handle string, patch session.RecordPatch) error {
	sets, args := buildPatch(patch)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, handle)
	query := fmt.Sprintf(`UPDATE blitz_sessions SET %s, updated_at = now() WHERE handle = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := s.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pg: update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, handle string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM blitz_sessions WHERE handle = $1`, handle)
	if err != nil {
		return fmt.Errorf("pg: delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// buildPatch renders the non-nil patch fields into SET clauses with
// positional placeholders starting at $1.
func buildPatch(patch session.RecordPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ExpiresAt != nil {
		add("expires_at", *patch.ExpiresAt)
	}
	if patch.PublicData != nil {
		add("public_data", *patch.PublicData)
	}
	if patch.PrivateData != nil {
		add("private_data", *patch.PrivateData)
	}
	return sets, args
}
