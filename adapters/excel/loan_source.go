package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"loandash/domain/core"
	"loandash/domain/loan"
	"loandash/ports"
)

// LoanSource loads the loan table from a CSV or XLSX export
type LoanSource struct {
	config ExcelConfig
}

var _ ports.LoanSource = (*LoanSource)(nil)

// NewLoanSource creates a file-backed loan source
func NewLoanSource(config ExcelConfig) *LoanSource {
	return &LoanSource{config: config}
}

// Describe names the file the table comes from
func (s *LoanSource) Describe() string {
	return "file:" + s.config.FilePath
}

// Load reads and coerces every row. Any bad cell aborts the load.
func (s *LoanSource) Load(ctx context.Context) (*loan.Dataset, error) {
	data, err := NewDataReader(s.config.FilePath).ReadData()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ToRecords(data)
	if err != nil {
		return nil, err
	}
	return loan.NewDataset(s.Describe(), records), nil
}

// ToRecords converts raw rows into loan records, checking the header first
func ToRecords(data *ExcelData) ([]loan.Record, error) {
	for _, col := range RequiredColumns {
		if !data.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingColumn, col)
		}
	}
	if len(data.Rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	hasWeekday := data.HasColumn(ColumnIssueWeekday)
	records := make([]loan.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		// header is line 1 in the source file
		rec, err := toRecord(row, i+2, hasWeekday)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRecord(row RawRowData, line int, hasWeekday bool) (loan.Record, error) {
	cellErr := func(col string, err error) error {
		return &core.CellError{Row: line, Column: col, Value: row[col], Err: err}
	}

	id, err := parseID(row[ColumnID])
	if err != nil {
		return loan.Record{}, cellErr(ColumnID, err)
	}
	amount, err := parseNumber(row[ColumnLoanAmount])
	if err != nil {
		return loan.Record{}, cellErr(ColumnLoanAmount, err)
	}
	rate, err := parseNumber(strings.TrimSuffix(row[ColumnInterestRate], "%"))
	if err != nil {
		return loan.Record{}, cellErr(ColumnInterestRate, err)
	}
	issued, err := core.ParseDate(row[ColumnIssueDate])
	if err != nil {
		return loan.Record{}, cellErr(ColumnIssueDate, err)
	}

	weekday := issued.Weekday()
	if hasWeekday && row[ColumnIssueWeekday] != "" {
		weekday, err = loan.ParseWeekday(row[ColumnIssueWeekday])
		if err != nil {
			return loan.Record{}, cellErr(ColumnIssueWeekday, err)
		}
	}

	condition, err := loan.ParseCondition(row[ColumnCondition])
	if err != nil {
		return loan.Record{}, cellErr(ColumnCondition, err)
	}

	for _, col := range []string{ColumnPurpose, ColumnTerm, ColumnGrade} {
		if row[col] == "" {
			return loan.Record{}, cellErr(col, fmt.Errorf("empty value"))
		}
	}

	return loan.Record{
		ID:           id,
		LoanAmount:   amount,
		InterestRate: rate,
		IssueDate:    issued,
		IssueWeekday: weekday,
		Purpose:      loan.NormalizePurpose(row[ColumnPurpose]),
		Term:         strings.TrimSpace(row[ColumnTerm]),
		Condition:    condition,
		Grade:        strings.TrimSpace(row[ColumnGrade]),
	}, nil
}

func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	clean = strings.TrimPrefix(clean, "$")
	if clean == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// parseID accepts integers and spreadsheet-style integral floats ("1077501.0")
func parseID(s string) (int64, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return id, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(v), nil
}
