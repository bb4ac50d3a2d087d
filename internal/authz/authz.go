// Package authz holds the role → capability table. Handlers never compare
// role strings themselves; they ask Allowed.
package authz

import "github.com/SoyuzCL/pos-panchita/internal/model"

type Capability string

const (
	RegisterOperate Capability = "register.operate"
	ProductsRead    Capability = "products.read"
	ProductsWrite   Capability = "products.write"
	SuppliersRead   Capability = "suppliers.read"
	SuppliersWrite  Capability = "suppliers.write"
	EmployeesManage Capability = "employees.manage"
	OrdersManage    Capability = "orders.manage"
	ActivityRead    Capability = "activity.read"
	ReportsRead     Capability = "reports.read"
)

var cashierCaps = []Capability{
	RegisterOperate, ProductsRead, ProductsWrite, SuppliersRead, OrdersManage, ActivityRead,
}

var table = map[string]map[Capability]bool{
	model.RoleAdmin:   set(append(cashierCaps, SuppliersWrite, EmployeesManage, ReportsRead)...),
	model.RoleCashier: set(cashierCaps...),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Allowed reports whether role grants capability. Unknown roles get nothing.
func Allowed(role string, capability Capability) bool {
	return table[role][capability]
}
