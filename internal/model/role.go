package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"` // display label
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin     = "ADMIN"
	RoleCashier   = "CASHIER"
	RoleWarehouse = "WAREHOUSE"
	RoleOwner     = "OWNER"
)

// DefaultRoles defines the store roles seeded at startup
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleCashier,
		Name:        "Kasir",
		Description: "Checkout register and transaction history",
	},
	{
		Code:        RoleWarehouse,
		Name:        "Gudang",
		Description: "Product catalog and stock management",
	},
	{
		Code:        RoleOwner,
		Name:        "Pemilik",
		Description: "Read-only dashboards and financial reports",
	},
}
