package entity

import "time"

// AccountKind tells personal and business sign-ups apart.
type AccountKind string

const (
	AccountKindPersonal AccountKind = "personal"
	AccountKindBusiness AccountKind = "business"
)

// Account is a registered account.
type Account struct {
	ID        string
	Kind      AccountKind
	Email     string
	FullName  string
	Company   string
	TaxID     string
	CreatedAt time.Time
}
