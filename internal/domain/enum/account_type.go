package enum

// AccountType distinguishes freelancer accounts from client accounts.
type AccountType string

const (
	AccountTypeFreelancer AccountType = "freelancer"
	AccountTypeClient     AccountType = "client"
)

// Valid reports whether the value is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeFreelancer, AccountTypeClient:
		return true
	}
	return false
}
