package excel

// Column names expected in the cleaned loan export
const (
	ColumnID           = "id"
	ColumnLoanAmount   = "loan_amount"
	ColumnInterestRate = "interest_rate"
	ColumnIssueDate    = "issue_date"
	ColumnIssueWeekday = "issue_weekday"
	ColumnPurpose      = "purpose"
	ColumnTerm         = "term"
	ColumnCondition    = "loan_condition"
	ColumnGrade        = "grade"
)

// RequiredColumns must all be present in the header row. issue_weekday is
// optional and derived from issue_date when missing.
var RequiredColumns = []string{
	ColumnID,
	ColumnLoanAmount,
	ColumnInterestRate,
	ColumnIssueDate,
	ColumnPurpose,
	ColumnTerm,
	ColumnCondition,
	ColumnGrade,
}

// ExcelConfig holds configuration for the file-based loan source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
}

// DefaultExcelConfig returns the configuration for path
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{FilePath: path}
}
