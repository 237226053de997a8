package analysis

import (
	"sort"
	"time"

	"loandash/domain/core"
	"loandash/domain/loan"

	"github.com/montanaflynn/stats"
)

// Overview holds the headline metrics shown in the tiles
type Overview struct {
	TotalLoans          int     `json:"total_loans"`
	TotalAmount         float64 `json:"total_amount"`
	AverageAmount       float64 `json:"average_amount"`
	AverageInterestRate float64 `json:"average_interest_rate"`
}

// Bucket is a labelled count
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DatePoint is one step of a per-issue-date series
type DatePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Summarize computes the overview metrics. An empty dataset has no means and
// is reported as core.ErrEmptyDataset.
func Summarize(ds *loan.Dataset) (Overview, error) {
	if ds.Len() == 0 {
		return Overview{}, core.ErrEmptyDataset
	}

	amounts := stats.Float64Data(ds.Amounts())
	total, err := amounts.Sum()
	if err != nil {
		return Overview{}, err
	}
	meanAmount, err := amounts.Mean()
	if err != nil {
		return Overview{}, err
	}
	meanRate, err := stats.Mean(ds.InterestRates())
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		TotalLoans:          ds.Len(),
		TotalAmount:         total,
		AverageAmount:       meanAmount,
		AverageInterestRate: meanRate,
	}, nil
}

// CountByDate returns the number of loans per issue date, oldest first
func CountByDate(ds *loan.Dataset) []DatePoint {
	return byDate(ds, func(loan.Record) float64 { return 1 })
}

// AmountByDate returns the loan amount issued per issue date, oldest first
func AmountByDate(ds *loan.Dataset) []DatePoint {
	return byDate(ds, func(r loan.Record) float64 { return r.LoanAmount })
}

func byDate(ds *loan.Dataset, value func(loan.Record) float64) []DatePoint {
	totals := make(map[time.Time]float64)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		totals[core.Day(r.IssueDate)] += value(r)
	}

	points := make([]DatePoint, 0, len(totals))
	for d, v := range totals {
		points = append(points, DatePoint{Date: d, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// CountByWeekday always returns seven buckets, Monday through Sunday
func CountByWeekday(ds *loan.Dataset) []Bucket {
	counts := make(map[time.Weekday]int, 7)
	for i := 0; i < ds.Len(); i++ {
		counts[ds.At(i).IssueWeekday]++
	}

	buckets := make([]Bucket, 0, len(loan.WeekdayOrder))
	for _, d := range loan.WeekdayOrder {
		buckets = append(buckets, Bucket{Label: d.String(), Count: counts[d]})
	}
	return buckets
}

// CountByCondition returns Good Loan then Bad Loan, zero-filled
func CountByCondition(ds *loan.Dataset) []Bucket {
	counts := make(map[loan.Condition]int, len(loan.Conditions))
	for i := 0; i < ds.Len(); i++ {
		counts[ds.At(i).Condition]++
	}

	buckets := make([]Bucket, 0, len(loan.Conditions))
	for _, c := range loan.Conditions {
		buckets = append(buckets, Bucket{Label: c.String(), Count: counts[c]})
	}
	return buckets
}

// CountByGrade returns one bucket per grade in ascending label order
func CountByGrade(ds *loan.Dataset) []Bucket {
	return countBy(ds, func(r loan.Record) string { return r.Grade })
}

func countBy(ds *loan.Dataset, key func(loan.Record) string) []Bucket {
	counts := make(map[string]int)
	for i := 0; i < ds.Len(); i++ {
		counts[key(ds.At(i))]++
	}

	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	buckets := make([]Bucket, 0, len(labels))
	for _, l := range labels {
		buckets = append(buckets, Bucket{Label: l, Count: counts[l]})
	}
	return buckets
}

// TotalCount sums bucket counts
func TotalCount(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

// Terms lists the distinct loan terms in ascending order
func Terms(ds *loan.Dataset) []string {
	buckets := countBy(ds, func(r loan.Record) string { return r.Term })
	terms := make([]string, len(buckets))
	for i, b := range buckets {
		terms[i] = b.Label
	}
	return terms
}
