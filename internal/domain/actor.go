package domain

type (
	// Role is the capability class under which an operation is invoked.
	Role string
)

// List of actor roles
const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleAdmin      Role = "admin"
)

var allowedRoles = [...]Role{RoleCustomer, RoleRestaurant, RoleCourier, RoleAdmin}

// Actor identifies who is calling into the core. It is resolved once at the
// HTTP boundary and passed down; services never re-derive it.
type Actor struct {
	Role Role
	ID   int64
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// CanDriveOrderForward reports whether the role may push an order along the
// pending -> processing -> out_for_delivery -> delivered chain. Customers may
// only cancel.
func (r Role) CanDriveOrderForward() bool {
	return r == RoleRestaurant || r == RoleCourier || r == RoleAdmin
}
