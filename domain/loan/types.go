package loan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"loandash/domain/core"
)

// Condition classifies a loan by repayment outcome
type Condition string

const (
	ConditionGood Condition = "Good Loan"
	ConditionBad  Condition = "Bad Loan"
)

// Conditions lists every condition in display order
var Conditions = []Condition{ConditionGood, ConditionBad}

// String returns the display label
func (c Condition) String() string {
	return string(c)
}

// ParseCondition accepts the display label or its short form, case-insensitively
func ParseCondition(s string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good loan", "good":
		return ConditionGood, nil
	case "bad loan", "bad":
		return ConditionBad, nil
	}
	return "", fmt.Errorf("%w %q", core.ErrUnknownCondition, s)
}

// NormalizePurpose turns snake_case purposes into readable labels
func NormalizePurpose(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
}

// WeekdayOrder is the display order for weekday breakdowns
var WeekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ParseWeekday parses an English weekday name ("Monday" or "Mon")
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range WeekdayOrder {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Record is a single loan row
type Record struct {
	ID           int64
	LoanAmount   float64
	InterestRate float64
	IssueDate    time.Time
	IssueWeekday time.Weekday
	Purpose      string
	Term         string
	Condition    Condition
	Grade        string
}

// Dataset is the immutable loan table shared by every request
type Dataset struct {
	id       core.DatasetID
	source   string
	loadedAt time.Time
	filters  map[string]string
	records  []Record
}

// NewDataset copies records into a new dataset
func NewDataset(source string, records []Record) *Dataset {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Dataset{
		id:       core.NewDatasetID(),
		source:   source,
		loadedAt: core.Now().Time(),
		records:  owned,
	}
}

func (d *Dataset) ID() core.DatasetID { return d.id }
func (d *Dataset) Source() string { return d.source }
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
func (d *Dataset) Len() int { return len(d.records) }
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the rows
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Amounts returns the loan amount column
func (d *Dataset) Amounts() []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.LoanAmount
	}
	return out
}

// InterestRates returns the interest rate column
func (d *Dataset) InterestRates() []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.InterestRate
	}
	return out
}

// Fingerprint identifies this view of the table: the load it came from, the
// filters applied, and the id, amount, purpose and term of every record.
func (d *Dataset) Fingerprint() core.Hash {
	rows := make([]string, len(d.records))
	for i, r := range d.records {
		rows[i] = strconv.FormatInt(r.ID, 10) + ":" +
			strconv.FormatFloat(r.LoanAmount, 'g', -1, 64) + ":" +
			r.Purpose + ":" + r.Term
	}
	return core.ComputeSubsetHash(d.id, rows, d.filters)
}
