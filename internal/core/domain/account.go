package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypeForCode derives the account type from the leading digit of a
// numeric account code (1=Asset, 2=Liability, 3=Equity, 4=Revenue, 5-9=Expense).
// The second return is false when the code carries no recognisable digit.
func AccountTypeForCode(code string) (AccountType, bool) {
	if code == "" {
		return "", false
	}
	switch code[0] {
	case '1':
		return Asset, true
	case '2':
		return Liability, true
	case '3':
		return Equity, true
	case '4':
		return Revenue, true
	case '5', '6', '7', '8', '9':
		return Expense, true
	default:
		return "", false
	}
}

// Account represents a ledger account within the core domain.
// Accounts are never deleted; they are deactivated so historical entries
// keep resolving.
type Account struct {
	AccountID   string      `json:"accountID"`           // Primary Key (UUID)
	TenantID    string      `json:"tenantID"`            // Owning tenant (Not Null)
	CompanyID   *string     `json:"companyID,omitempty"` // Nullable: tenant-wide account when unset
	Code        string      `json:"code"`                // Numeric chart code, unique per (tenant, company)
	Name        string      `json:"name"`                // User-defined name
	AccountType AccountType `json:"accountType"`         // ASSET, LIABILITY, etc.
	Description string      `json:"description"`         // Nullable user description
	IsActive    bool        `json:"isActive"`            // Deactivation flag, never hard-deleted
	AuditFields             // Embed CreatedAt, CreatedBy, etc.
}

// ResolutionTier identifies which stage of the account resolution algorithm
// produced a match. FALLBACK is the last-resort tier and always carries a
// warning so drafting callers can surface it for review.
type ResolutionTier string

const (
	TierMatch    ResolutionTier = "MATCH"    // exact or partial name/code match
	TierCategory ResolutionTier = "CATEGORY" // semantic category keyword match
	TierCreated  ResolutionTier = "CREATED"  // canonical account created on demand
	TierFallback ResolutionTier = "FALLBACK" // arbitrary existing account, needs review
)

// Resolution is the outcome of resolving a free-form account reference.
type Resolution struct {
	Account Account        `json:"account"`
	Tier    ResolutionTier `json:"tier"`
	Warning string         `json:"warning,omitempty"` // set only for TierFallback
}
