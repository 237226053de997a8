package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"loandash/domain/core"
	"loandash/domain/loan"
	"loandash/ports"

	"github.com/jmoiron/sqlx"
)

// loanRow mirrors one row of the loans table
type loanRow struct {
	ID           int64     `db:"id"`
	LoanAmount   float64   `db:"loan_amount"`
	InterestRate float64   `db:"interest_rate"`
	IssueDate    time.Time `db:"issue_date"`
	IssueWeekday string    `db:"issue_weekday"`
	Purpose      string    `db:"purpose"`
	Term         string    `db:"term"`
	Condition    string    `db:"loan_condition"`
	Grade        string    `db:"grade"`
}

const selectLoansQuery = `SELECT
	id, loan_amount, interest_rate, issue_date, COALESCE(issue_weekday, '') AS issue_weekday,
	purpose, term, loan_condition, grade
FROM loans
ORDER BY id`

// LoanRepository reads the loan table from Postgres. It never writes.
type LoanRepository struct {
	db *sqlx.DB
}

var _ ports.LoanSource = (*LoanRepository)(nil)

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *sqlx.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Describe names the table the loans come from
func (r *LoanRepository) Describe() string {
	return "postgres:loans"
}

// Load selects every loan and converts it into the domain dataset
func (r *LoanRepository) Load(ctx context.Context) (*loan.Dataset, error) {
	var rows []loanRow
	if err := r.db.SelectContext(ctx, &rows, selectLoansQuery); err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	records := make([]loan.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("loan row %d (id %d): %w", i+1, row.ID, err)
		}
		records = append(records, rec)
	}
	return loan.NewDataset(r.Describe(), records), nil
}

func (row loanRow) toRecord() (loan.Record, error) {
	if !isFinite(row.LoanAmount) {
		return loan.Record{}, fmt.Errorf("%w: loan_amount %v is not a finite number", core.ErrInvalidCell, row.LoanAmount)
	}
	if !isFinite(row.InterestRate) {
		return loan.Record{}, fmt.Errorf("%w: interest_rate %v is not a finite number", core.ErrInvalidCell, row.InterestRate)
	}

	condition, err := loan.ParseCondition(row.Condition)
	if err != nil {
		return loan.Record{}, fmt.Errorf("%w: %v", core.ErrInvalidCell, err)
	}

	issued := core.Day(row.IssueDate)
	weekday := issued.Weekday()
	if row.IssueWeekday != "" {
		weekday, err = loan.ParseWeekday(row.IssueWeekday)
		if err != nil {
			return loan.Record{}, fmt.Errorf("%w: %v", core.ErrInvalidCell, err)
		}
	}

	return loan.Record{
		ID:           row.ID,
		LoanAmount:   row.LoanAmount,
		InterestRate: row.InterestRate,
		IssueDate:    issued,
		IssueWeekday: weekday,
		Purpose:      loan.NormalizePurpose(row.Purpose),
		Term:         strings.TrimSpace(row.Term),
		Condition:    condition,
		Grade:        strings.TrimSpace(row.Grade),
	}, nil
}

// double precision columns can hold NaN and ±Infinity
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
