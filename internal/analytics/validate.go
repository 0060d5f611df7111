package analytics

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

// Report statuses, ordered by severity.
const (
	StatusValid   = "valid"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Issue is one validation finding.
type Issue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Report is the outcome of a whole-dataset validation pass.
type Report struct {
	Status string  `json:"status"`
	Issues []Issue `json:"issues"`
}

// Validate checks the working dataset against the schema descriptors:
// required columns present (by name or alias), policy numbers unique in
// sales, premium values numeric. Missing required columns are errors;
// the rest are warnings. Never cached: it reads the working copies
// directly and is cheap relative to the aggregations.
func (s *Session) Validate() Report {
	if !s.Loaded() {
		return Report{Status: StatusError, Issues: []Issue{{Type: StatusError, Message: "No data loaded"}}}
	}

	var r Report
	r.Status = StatusValid

	sales, _ := s.store.Working(store.TableSales)
	claims, _ := s.store.Working(store.TableClaims)
	salesDesc, _ := s.store.Descriptor(store.TableSales)
	claimsDesc, _ := s.store.Descriptor(store.TableClaims)

	if missing := missingRequired(sales, salesDesc); len(missing) > 0 {
		r.add(StatusError, fmt.Sprintf("Missing required Sales columns: %s", strings.Join(missing, ", ")))
	}
	if missing := missingRequired(claims, claimsDesc); len(missing) > 0 {
		r.add(StatusError, fmt.Sprintf("Missing required Claims columns: %s", strings.Join(missing, ", ")))
	}

	if policyCol, ok := salesDesc.Resolve(sales, "Policy No"); ok {
		if dups := duplicateCount(sales, policyCol); dups > 0 {
			r.add(StatusWarning, fmt.Sprintf("Found %d duplicate Policy Numbers in Sales data.", dups))
		}
	}

	if premiumCol, ok := salesDesc.Resolve(sales, "Gross Premium"); ok {
		nonNumeric := 0
		for _, row := range sales.Rows {
			v := row.Get(premiumCol)
			if table.IsMissing(v) {
				continue
			}
			if _, ok := table.AsFloat(v); !ok {
				nonNumeric++
			}
		}
		if nonNumeric > 0 {
			r.add(StatusWarning, fmt.Sprintf("Found %d non-numeric values in %s column.", nonNumeric, premiumCol))
		}
	}
	return r
}

// add records an issue and escalates the report status. An error status
// never downgrades to warning.
func (r *Report) add(typ, message string) {
	r.Issues = append(r.Issues, Issue{Type: typ, Message: message})
	if typ == StatusError {
		r.Status = StatusError
	} else if r.Status == StatusValid {
		r.Status = StatusWarning
	}
}

// missingRequired lists required fields that resolve to no column, by
// name or alias.
func missingRequired(t *table.Table, desc *schema.Descriptor) []string {
	var missing []string
	for _, f := range desc.RequiredFields() {
		if _, ok := desc.Resolve(t, f.Name); !ok {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// duplicateCount counts rows beyond the first occurrence of each value.
func duplicateCount(t *table.Table, column string) int {
	seen := make(map[string]bool)
	dups := 0
	for _, row := range t.Rows {
		v := row.Get(column)
		if table.IsMissing(v) {
			continue
		}
		key := table.AsString(v)
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}
