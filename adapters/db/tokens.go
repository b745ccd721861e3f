package db

import (
	"context"
	"fmt"
	"time"
)

func (db *DB) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	const q = `
		INSERT INTO revoked_tokens(jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING;
	`

	if _, err := db.conn.ExecContext(ctx, q, jti, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (db *DB) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

	var revoked bool
	if err := db.conn.GetContext(ctx, &revoked, q, jti); err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// PurgeRevokedTokens drops entries for tokens that expired before the given time.
func (db *DB) PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM revoked_tokens WHERE expires_at < $1`

	res, err := db.conn.ExecContext(ctx, q, before)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
