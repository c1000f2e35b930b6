package enums

// ChangeKind identifies which entity family an audit entry belongs to. Each
// kind writes to its own append-only table.
type ChangeKind string

const (
	ChangeKindClient    ChangeKind = "client"
	ChangeKindEmployee  ChangeKind = "employee"
	ChangeKindInventory ChangeKind = "inventory"
)

// Valid reports whether the kind maps to a known audit table.
func (k ChangeKind) Valid() bool {
	switch k {
	case ChangeKindClient, ChangeKindEmployee, ChangeKindInventory:
		return true
	}
	return false
}

// Table returns the audit table the kind appends to.
func (k ChangeKind) Table() string {
	return string(k) + "_changes"
}
