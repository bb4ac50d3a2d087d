package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	all := []Capability{
		RegisterOperate, ProductsRead, ProductsWrite, SuppliersRead, SuppliersWrite,
		EmployeesManage, OrdersManage, ActivityRead, ReportsRead,
	}
	adminOnly := map[Capability]bool{SuppliersWrite: true, EmployeesManage: true, ReportsRead: true}

	for _, c := range all {
		assert.True(t, Allowed("admin", c), "admin should have %s", c)
		assert.Equal(t, !adminOnly[c], Allowed("cajero", c), "cajero / %s", c)
		assert.False(t, Allowed("", c))
		assert.False(t, Allowed("ADMIN", c))
	}
}

func TestAllowed_UnknownCapability(t *testing.T) {
	assert.False(t, Allowed("admin", Capability("root.everything")))
}
