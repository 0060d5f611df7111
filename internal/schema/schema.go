// Package schema describes the expected shape of the sales and claims
// ledgers. A Descriptor lists every known column with its semantic role
// and alternate header spellings, so column resolution and degradation
// paths are explicit instead of scattered runtime membership probes.
//
// Built-in descriptors cover the standard ledger layout; callers may load
// replacement descriptors from YAML files (see load.go).
package schema

import "github.com/claimlens/claimlens/internal/table"

// Role is the semantic role of a column. Roles drive value coercion in the
// validator and column selection in the merge builder and aggregations.
type Role string

const (
	RoleIdentifier  Role = "identifier"
	RoleMonetary    Role = "monetary"
	RoleNumeric     Role = "numeric"
	RoleCategorical Role = "categorical"
	RoleDate        Role = "date"
	RoleStatus      Role = "status"
)

// Field is one known column: a canonical header name, alternate spellings
// seen in source workbooks, and validation constraints.
type Field struct {
	Name        string   `yaml:"name"`
	Role        Role     `yaml:"role"`
	Aliases     []string `yaml:"aliases,omitempty"`
	NonNegative bool     `yaml:"nonNegative,omitempty"`
	Enum        []string `yaml:"enum,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
}

// Candidates returns the ordered header names that may carry this field:
// the canonical name first, then aliases.
func (f *Field) Candidates() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Descriptor describes one logical ledger (sales or claims).
type Descriptor struct {
	Table  string  `yaml:"table"`
	Fields []Field `yaml:"fields"`
}

// Field returns the field with the given canonical name.
func (d *Descriptor) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// Candidates returns the candidate headers for a canonical field name.
// Unknown names resolve to themselves so ad-hoc columns still work.
func (d *Descriptor) Candidates(name string) []string {
	if f, ok := d.Field(name); ok {
		return f.Candidates()
	}
	return []string{name}
}

// Resolve finds the actual column carrying the named field in a table.
func (d *Descriptor) Resolve(t *table.Table, name string) (string, bool) {
	return t.Resolve(d.Candidates(name)...)
}

// ResolveRole finds the first column of the given role present in a table,
// trying fields in declaration order and each field's candidates in order.
func (d *Descriptor) ResolveRole(t *table.Table, role Role) (string, bool) {
	for i := range d.Fields {
		if d.Fields[i].Role != role {
			continue
		}
		if col, ok := t.Resolve(d.Fields[i].Candidates()...); ok {
			return col, true
		}
	}
	return "", false
}

// Lookup returns the field that owns the given actual column name, via
// canonical name or alias. Used by the validator, which receives the
// column the caller addressed rather than the canonical field name.
func (d *Descriptor) Lookup(column string) (*Field, bool) {
	for i := range d.Fields {
		for _, cand := range d.Fields[i].Candidates() {
			if cand == column {
				return &d.Fields[i], true
			}
		}
	}
	return nil, false
}

// RequiredFields returns all fields marked required, in declaration order.
func (d *Descriptor) RequiredFields() []*Field {
	var out []*Field
	for i := range d.Fields {
		if d.Fields[i].Required {
			out = append(out, &d.Fields[i])
		}
	}
	return out
}

// Sales returns the built-in descriptor for the sales ledger.
func Sales() *Descriptor {
	return &Descriptor{
		Table: "sales",
		Fields: []Field{
			{Name: "Policy No", Role: RoleIdentifier, Aliases: []string{"PolicyNo", "POLICY_NO", "Policy Number"}, Required: true},
			{Name: "Dealer", Role: RoleCategorical, Aliases: []string{"Dealer AJA"}, Required: true},
			{Name: "Product", Role: RoleCategorical, Aliases: []string{"Coverage"}, Required: true},
			{Name: "Year", Role: RoleNumeric, Required: true},
			{Name: "Month", Role: RoleNumeric, Required: true},
			{Name: "Gross Premium", Role: RoleMonetary, Aliases: []string{"Premium"}, NonNegative: true, Required: true},
			{Name: "Risk Premium", Role: RoleMonetary, NonNegative: true},
			{Name: "Make", Role: RoleCategorical},
			{Name: "Policy Sold Date", Role: RoleDate},
			{Name: "CC", Role: RoleNumeric},
			{Name: "Cylinder", Role: RoleNumeric},
			{Name: "Start KM", Role: RoleNumeric},
			{Name: "End KM", Role: RoleNumeric},
			{Name: "Country Name", Role: RoleCategorical},
			{Name: "Vehicle Type", Role: RoleCategorical},
			{Name: "Body Type", Role: RoleCategorical},
		},
	}
}

// Claims returns the built-in descriptor for the claims ledger.
func Claims() *Descriptor {
	return &Descriptor{
		Table: "claims",
		Fields: []Field{
			{Name: "Policy No", Role: RoleIdentifier, Aliases: []string{"PolicyNo", "POLICY_NO", "Policy Number"}, Required: true},
			{Name: "Claim Status", Role: RoleStatus, Enum: []string{"Approved", "Rejected", "Reversed"}, Required: true},
			{Name: "Total Auth Amount", Role: RoleMonetary, NonNegative: true, Required: true},
			{Name: "Labor", Role: RoleMonetary, NonNegative: true},
			{Name: "Parts", Role: RoleMonetary, NonNegative: true},
			{Name: "Failure Date", Role: RoleDate},
			{Name: "Authorized Date", Role: RoleDate},
			{Name: "Year", Role: RoleNumeric},
			{Name: "Month", Role: RoleNumeric},
			{Name: "Claim KM", Role: RoleNumeric},
			{Name: "CC", Role: RoleNumeric},
			{Name: "Part Type", Role: RoleCategorical},
			{Name: "Dealer", Role: RoleCategorical, Aliases: []string{"Dealer AJA"}},
			{Name: "Make", Role: RoleCategorical},
		},
	}
}
