package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTestWorkbook creates a small two-sheet workbook on disk and
// returns its path.
func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Sales"))
	require.NoError(t, f.SetSheetRow("Sales", "A1", &[]any{"Policy No", "Dealer", "Product", "Year", "Month", "Gross Premium", "Make"}))
	require.NoError(t, f.SetSheetRow("Sales", "A2", &[]any{"A", "Alpha Motors", "Extended Warranty", 2024, 1, 1000, "Toyota"}))
	require.NoError(t, f.SetSheetRow("Sales", "A3", &[]any{"B", "Beta Cars", "Basic Cover", 2024, 2, 2000, "Honda"}))

	_, err := f.NewSheet("Claims")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Claims", "A1", &[]any{"Policy No", "Claim Status", "Total Auth Amount"}))
	require.NoError(t, f.SetSheetRow("Claims", "A2", &[]any{"A", "Approved", 150}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand_JSON(t *testing.T) {
	wb := writeTestWorkbook(t)

	out, err := execute(t, "--workbook", wb, "--format", "json", "summary")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			TotalPolicies int     `json:"totalPolicies"`
			TotalPremium  float64 `json:"totalPremium"`
			TotalClaims   int     `json:"totalClaims"`
			LossRatio     float64 `json:"lossRatio"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.TotalPolicies)
	assert.Equal(t, 3000.0, resp.Data.TotalPremium)
	assert.Equal(t, 1, resp.Data.TotalClaims)
	assert.Equal(t, 5.0, resp.Data.LossRatio)
}

func TestSummaryCommand_FilteredText(t *testing.T) {
	wb := writeTestWorkbook(t)

	out, err := execute(t, "--workbook", wb, "summary", "--dealer", "Alpha Motors")
	require.NoError(t, err)
	assert.Contains(t, out, "Policies:            1")
	assert.Contains(t, out, "Gross premium:       1000.00")
}

func TestSummaryCommand_MissingWorkbook(t *testing.T) {
	_, err := execute(t, "summary")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBreakdownCommand_UnknownDimension(t *testing.T) {
	wb := writeTestWorkbook(t)

	_, err := execute(t, "--workbook", wb, "breakdown", "--by", "weather")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRawCommand_PageClamp(t *testing.T) {
	wb := writeTestWorkbook(t)

	out, err := execute(t, "--workbook", wb, "raw", "sales", "--page", "99", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2/2, 2 rows total")
	assert.Contains(t, out, "Policy No=B")
}

func TestEditCommand_SingleEditAndExport(t *testing.T) {
	wb := writeTestWorkbook(t)
	exported := filepath.Join(t.TempDir(), "edited.xlsx")

	out, err := execute(t, "--workbook", wb,
		"edit", "sales", "0", "Gross Premium", "1500", "--export", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "row 0 Gross Premium:")

	// The exported workbook reflects the edit.
	out, err = execute(t, "--workbook", exported, "--format", "json", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "3500")
}

func TestEditCommand_RejectedEditFails(t *testing.T) {
	wb := writeTestWorkbook(t)

	// "--" keeps the negative value from parsing as a flag.
	out, err := execute(t, "--workbook", wb, "edit", "--", "sales", "0", "Gross Premium", "-5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "REJECTED")
}

func TestEditCommand_BatchFromYAMLWithAuditMirror(t *testing.T) {
	wb := writeTestWorkbook(t)
	dir := t.TempDir()
	editsPath := filepath.Join(dir, "edits.yaml")
	auditPath := filepath.Join(dir, "audit.db")

	edits := `table: sales
edits:
  - {row: 0, column: Gross Premium, value: 1200}
  - {row: 1, column: Dealer, value: Gamma Auto}
`
	require.NoError(t, os.WriteFile(editsPath, []byte(edits), 0o644))

	out, err := execute(t, "--workbook", wb,
		"edit", "--file", editsPath, "--audit-db", auditPath)
	require.NoError(t, err)
	assert.Contains(t, out, "row 0 Gross Premium:")
	assert.Contains(t, out, "row 1 Dealer:")

	// The mirror holds both accepted edits.
	out, err = execute(t, "audit", "--db", auditPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sales row 0 Gross Premium")
	assert.Contains(t, out, "sales row 1 Dealer")
}

func TestValidateCommand_CleanData(t *testing.T) {
	wb := writeTestWorkbook(t)

	out, err := execute(t, "--workbook", wb, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "status: valid")
}

func TestDigestCommand(t *testing.T) {
	wb := writeTestWorkbook(t)

	out, err := execute(t, "--workbook", wb, "digest")
	require.NoError(t, err)
	assert.Contains(t, out, "INSURANCE DATA SUMMARY:")
	assert.Contains(t, out, "- Total Policies: 2")
}
