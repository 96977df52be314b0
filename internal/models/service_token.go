package models

import "time"

// ServiceToken represents a machine-caller API token row.
type ServiceToken struct {
	TokenID    string     `db:"token_id"`
	TenantID   string     `db:"tenant_id"`
	Name       string     `db:"name"`
	TokenHash  string     `db:"token_hash"`
	CreatedBy  string     `db:"created_by"`
	LastUsedAt *time.Time `db:"last_used_at"`
	ExpiresAt  *time.Time `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
