package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger account row.
type Account struct {
	AccountID   string      `db:"account_id"`
	TenantID    string      `db:"tenant_id"`
	CompanyID   *string     `db:"company_id"` // Nullable: tenant-wide account when NULL
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	AccountType AccountType `db:"account_type"`
	Description string      `db:"description"`
	IsActive    bool        `db:"is_active"`
	AuditFields             // Embed common audit fields
}
