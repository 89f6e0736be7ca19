package users

// Role gates admin and staff routes; full account management is handled
// upstream of this service.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// CanScanTickets reports whether the role may operate the scanner endpoints
func (r Role) CanScanTickets() bool {
	return r == RoleAdmin || r == RoleStaff
}
