package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Master data
	{Code: "masterdata:manage", Name: "Manage Categories and Brands"},
	// Checkout register
	{Code: "checkout:operate", Name: "Operate Checkout Register"},
	// Transactions
	{Code: "transaction:view", Name: "View Transaction"},
	{Code: "transaction:cancel", Name: "Cancel Pending Transaction"},
	// Expenses
	{Code: "expense:view", Name: "View Expense"},
	{Code: "expense:manage", Name: "Manage Expenses"},
	// Reporting
	{Code: "report:view", Name: "View Reports"},
	{Code: "report:export", Name: "Export Reports"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}

// RolePrivileges maps a role code to the privilege codes it is seeded
// with. ADMIN is granted everything and is handled separately.
var RolePrivileges = map[string][]string{
	RoleCashier: {
		"product:view",
		"checkout:operate",
		"transaction:view",
		"transaction:cancel",
		"dashboard:view",
	},
	RoleWarehouse: {
		"product:view",
		"product:create",
		"product:update",
		"product:delete",
		"masterdata:manage",
		"dashboard:view",
	},
	RoleOwner: {
		"product:view",
		"transaction:view",
		"expense:view",
		"report:view",
		"report:export",
		"dashboard:view",
	},
}
