package domain

type Role string

const (
	RoleCustomer   Role = "Customer"
	RoleVendor     Role = "Vendor"
	RoleSuperAdmin Role = "SuperAdmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleSuperAdmin:
		return true
	}
	return false
}

// SelfAssignable 注册时允许自选的角色
func (r Role) SelfAssignable() bool { return r == RoleCustomer || r == RoleVendor }
