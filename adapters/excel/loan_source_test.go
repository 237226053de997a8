package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loandash/domain/core"
	"loandash/domain/loan"
	"loandash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `id,loan_amount,interest_rate,issue_date,issue_weekday,purpose,term,loan_condition,grade
1077501,5000,10.65,2015-12-01,Tuesday,credit_card,36 months,Good Loan,B
1077430,2500,15.27,2015-12-01,Tuesday,car,60 months,Bad Loan,C
1077175,"2,400",15.96,2015-12-03,,small_business,36 months,good loan,C
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoanSourceReadsCSV(t *testing.T) {
	path := writeFile(t, "loans.csv", sampleCSV)
	src := NewLoanSource(DefaultExcelConfig(path))

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	first := ds.At(0)
	assert.Equal(t, int64(1077501), first.ID)
	assert.Equal(t, 5000.0, first.LoanAmount)
	assert.Equal(t, 10.65, first.InterestRate)
	assert.Equal(t, time.Date(2015, 12, 1, 0, 0, 0, 0, time.UTC), first.IssueDate)
	assert.Equal(t, time.Tuesday, first.IssueWeekday)
	assert.Equal(t, "credit card", first.Purpose)
	assert.Equal(t, loan.ConditionGood, first.Condition)

	third := ds.At(2)
	assert.Equal(t, 2400.0, third.LoanAmount)
	assert.Equal(t, time.Thursday, third.IssueWeekday, "blank weekday is derived from the issue date")
	assert.Equal(t, "small business", third.Purpose)
	assert.Equal(t, loan.ConditionGood, third.Condition)

	assert.Equal(t, "file:"+path, ds.Source())
}

func TestLoanSourceReadsXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"id", "loan_amount", "interest_rate", "issue_date", "purpose", "term", "loan_condition", "grade"},
		{"1", "1000", "12.5", "2016-01-04", "home_improvement", "36 months", "Good Loan", "A"},
		{"2", "2000", "18", "2016-01-10", "car", "60 months", "Bad Loan", "D"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "loans.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewLoanSource(DefaultExcelConfig(path)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, "home improvement", ds.At(0).Purpose)
	assert.Equal(t, time.Monday, ds.At(0).IssueWeekday)
	assert.Equal(t, time.Sunday, ds.At(1).IssueWeekday)
	assert.Equal(t, loan.ConditionBad, ds.At(1).Condition)
}

func TestLoanSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{
			name:    "missing column",
			file:    "loans.csv",
			content: "id,loan_amount\n1,100\n",
			target:  core.ErrMissingColumn,
		},
		{
			name:    "header only",
			file:    "loans.csv",
			content: "id,loan_amount,interest_rate,issue_date,purpose,term,loan_condition,grade\n",
			target:  core.ErrEmptyDataset,
		},
		{
			name:    "bad amount",
			file:    "loans.csv",
			content: "id,loan_amount,interest_rate,issue_date,purpose,term,loan_condition,grade\n1,lots,10,2015-01-01,car,36 months,Good Loan,A\n",
			target:  core.ErrInvalidCell,
		},
		{
			name:    "unknown condition",
			file:    "loans.csv",
			content: "id,loan_amount,interest_rate,issue_date,purpose,term,loan_condition,grade\n1,100,10,2015-01-01,car,36 months,Okay Loan,A\n",
			target:  core.ErrInvalidCell,
		},
		{
			name:    "unsupported extension",
			file:    "loans.pkl",
			content: "binary",
			target:  core.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewLoanSource(DefaultExcelConfig(path)).Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestLoanSourceMissingFile(t *testing.T) {
	src := NewLoanSource(DefaultExcelConfig(filepath.Join(t.TempDir(), "absent.csv")))
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCellErrorNamesRowAndColumn(t *testing.T) {
	data := &ExcelData{
		Headers: RequiredColumns,
		Rows: []RawRowData{
			{"id": "1", "loan_amount": "100", "interest_rate": "9", "issue_date": "not-a-date", "purpose": "car", "term": "36 months", "loan_condition": "Good Loan", "grade": "A"},
		},
	}
	_, err := ToRecords(data)
	var cellErr *core.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 2, cellErr.Row)
	assert.Equal(t, ColumnIssueDate, cellErr.Column)
}

func TestParseID(t *testing.T) {
	id, err := parseID("1077501.0")
	require.NoError(t, err)
	assert.Equal(t, int64(1077501), id)

	_, err = parseID("12.5")
	assert.Error(t, err)
}

func TestLoanSourceReadsGeneratedExport(t *testing.T) {
	cfg := testkit.DefaultLoanConfig()
	cfg.LoanCount = 200
	want := testkit.NewLoanGenerator(cfg).Records()

	path := filepath.Join(t.TempDir(), "generated.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, testkit.WriteCSV(f, want))
	require.NoError(t, f.Close())

	ds, err := NewLoanSource(DefaultExcelConfig(path)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(want), ds.Len())

	for i, w := range want {
		got := ds.At(i)
		assert.Equal(t, w.ID, got.ID)
		assert.Equal(t, w.LoanAmount, got.LoanAmount)
		assert.Equal(t, w.InterestRate, got.InterestRate)
		assert.True(t, w.IssueDate.Equal(got.IssueDate), "row %d issue date", i)
		assert.Equal(t, w.IssueWeekday, got.IssueWeekday)
		assert.Equal(t, w.Purpose, got.Purpose)
		assert.Equal(t, w.Term, got.Term)
		assert.Equal(t, w.Condition, got.Condition)
		assert.Equal(t, w.Grade, got.Grade)
	}
}
