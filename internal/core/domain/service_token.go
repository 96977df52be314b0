package domain

import "time"

// ServiceToken authenticates machine callers such as reconciliation and
// reporting jobs. Only the bcrypt hash is stored; the plaintext token is
// shown once at creation.
type ServiceToken struct {
	TokenID    string     `json:"tokenID"`
	TenantID   string     `json:"tenantID"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"` // Never expose the hash in JSON responses
	CreatedBy  string     `json:"createdBy"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	RevokedAt  *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsExpired checks if the token has expired.
func (t *ServiceToken) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(time.Now())
}

// IsRevoked checks if the token has been revoked.
func (t *ServiceToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// UpdateLastUsed stamps the token with the current time.
func (t *ServiceToken) UpdateLastUsed() {
	now := time.Now()
	t.LastUsedAt = &now
}
