package domain

type Principal struct {
	AccountID string
	Role      Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type Capability string

const (
	CapabilityReviewTransactions Capability = "transactions:review"
	CapabilityReviewKYC          Capability = "kyc:review"
	CapabilityManagePacks        Capability = "packs:manage"
	CapabilityManageInvestments  Capability = "investments:manage"
	CapabilityManageAccounts     Capability = "accounts:manage"
	CapabilityViewPlatformStats  Capability = "stats:platform"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapabilityReviewTransactions: {},
		CapabilityReviewKYC:          {},
		CapabilityManagePacks:        {},
		CapabilityManageInvestments:  {},
		CapabilityManageAccounts:     {},
		CapabilityViewPlatformStats:  {},
	},
	RoleCustomer: {},
}

// Can reports whether the role grants c. Unknown roles grant nothing.
func (p Principal) Can(c Capability) bool {
	_, ok := roleCapabilities[p.Role][c]
	return ok
}
