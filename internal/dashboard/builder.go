package dashboard

import (
	"strconv"
	"time"

	"loandash/domain/core"
	"loandash/domain/loan"
	"loandash/internal/analysis"
	"loandash/internal/errors"
)

// MetricTile is one headline number
type MetricTile struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Help  string `json:"help"`
}

// ConditionView is the part of the page that depends on the selected condition
type ConditionView struct {
	Condition   loan.Condition `json:"condition"`
	Loans       int            `json:"loans"`
	Fingerprint string         `json:"fingerprint"`
	Tabs        []Tab          `json:"tabs"`
}

// Page is everything the dashboard template renders
type Page struct {
	Title       string         `json:"title"`
	DatasetID   string         `json:"dataset_id"`
	Source      string         `json:"source"`
	LoadedAt    time.Time      `json:"loaded_at"`
	Metrics     []MetricTile   `json:"metrics"`
	TrendTabs   []Tab          `json:"trend_tabs"`
	Performance []ChartConfig  `json:"performance"`
	Conditions  []string       `json:"conditions"`
	Selected    *ConditionView `json:"selected"`
}

// Title is the page heading
const Title = "Financial Insights Dashboard: Loan Performance & Trends"

// Options tune the builder
type Options struct {
	HistogramBins    int
	DefaultCondition loan.Condition
}

// DefaultOptions returns 20 histogram bins with Good Loan preselected
func DefaultOptions() Options {
	return Options{HistogramBins: 20, DefaultCondition: loan.ConditionGood}
}

// Builder turns the loaded table into page sections. The unfiltered sections
// never change, so they are computed once; condition views are computed per
// call from the full table.
type Builder struct {
	ds          *loan.Dataset
	opts        Options
	metrics     []MetricTile
	trends      []Tab
	performance []ChartConfig
}

// NewBuilder precomputes the condition-independent sections
func NewBuilder(ds *loan.Dataset, opts Options) (*Builder, error) {
	if opts.HistogramBins < 1 {
		return nil, errors.ConfigInvalid("histogram bins must be positive")
	}
	if opts.DefaultCondition == "" {
		opts.DefaultCondition = loan.ConditionGood
	}

	overview, err := analysis.Summarize(ds)
	if err != nil {
		return nil, errors.DatasetError("failed to summarize loans", err)
	}

	b := &Builder{ds: ds, opts: opts}
	b.metrics = metricTiles(overview)
	b.trends = []Tab{
		{
			Label: "Loans Issued Over Time",
			Chart: dateSeriesChart("loans-over-time", "Number of Loans Issued Over Time", "Number of Loans", analysis.CountByDate(ds)),
		},
		{
			Label: "Loan Amount Over Time",
			Chart: dateSeriesChart("amount-over-time", "Total Loan Amount Issued Over Time", "Total Loan Amount", analysis.AmountByDate(ds)),
		},
		{
			Label: "Issue Date Analysis",
			Chart: bucketChart("loans-by-weekday", ChartBar, "Distribution of Loans by Day of the Week", "Day of the Week", "Number of Loans", analysis.CountByWeekday(ds)),
		},
	}

	pie := bucketChart("loans-by-condition", ChartPie, "Distribution of Loans by Condition", "", "", analysis.CountByCondition(ds))
	pie.Hole = 0.4
	b.performance = []ChartConfig{
		pie,
		bucketChart("loans-by-grade", ChartBar, "Distribution of Loans by Grade", "Grade", "Number of Loans", analysis.CountByGrade(ds)),
	}

	return b, nil
}

func metricTiles(o analysis.Overview) []MetricTile {
	return []MetricTile{
		{Label: "Total Loans", Value: FormatCount(float64(o.TotalLoans)), Help: "Total Number of Loans"},
		{Label: "Total Loans Amount", Value: FormatCurrency(o.TotalAmount), Help: "Sum of All Loan Amounts"},
		{Label: "Average Interest Rate", Value: FormatPercent(o.AverageInterestRate), Help: "Percentage of the Loan Amount that the Borrower has to Pay"},
		{Label: "Average Loan Amount", Value: FormatCurrency(o.AverageAmount), Help: "Average Loan Amount Across All Loans"},
	}
}

// Metrics returns the overview tiles
func (b *Builder) Metrics() []MetricTile { return b.metrics }

// Trends returns the time-based tabs
func (b *Builder) Trends() []Tab { return b.trends }

// Performance returns the condition pie and grade bar
func (b *Builder) Performance() []ChartConfig { return b.performance }

// Dataset returns the table the builder reads
func (b *Builder) Dataset() *loan.Dataset { return b.ds }

// DefaultCondition is the selector's initial value
func (b *Builder) DefaultCondition() loan.Condition { return b.opts.DefaultCondition }

// ParseCondition resolves a selector value; empty means the default
func (b *Builder) ParseCondition(raw string) (loan.Condition, error) {
	if raw == "" {
		return b.opts.DefaultCondition, nil
	}
	c, err := loan.ParseCondition(raw)
	if err != nil {
		return "", errors.InvalidInput("condition must be \"Good Loan\" or \"Bad Loan\"")
	}
	return c, nil
}

// Condition filters the full table by c and builds the histogram and box plot
func (b *Builder) Condition(c loan.Condition) (*ConditionView, error) {
	subset := b.ds.FilterByCondition(c)

	hist, err := analysis.AmountHistogram(subset, b.opts.HistogramBins)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to bin %s amounts", c)
	}
	boxes, err := analysis.AmountBoxes(subset)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compute %s amount boxes", c)
	}

	return &ConditionView{
		Condition:   c,
		Loans:       subset.Len(),
		Fingerprint: b.viewFingerprint(subset),
		Tabs: []Tab{
			{Label: "Loan Amount Distribution", Chart: histogramChart("amount-histogram", "Loan Amount Distribution by Condition", hist)},
			{Label: "Loan Amount Distribution by Purpose", Chart: boxChart("amount-by-purpose", "Loan Amount Distribution by Purpose", boxes)},
		},
	}, nil
}

// viewFingerprint extends the subset fingerprint with the settings that shape
// the charts built from it
func (b *Builder) viewFingerprint(subset *loan.Dataset) string {
	key := subset.Fingerprint().String() + "|bins=" + strconv.Itoa(b.opts.HistogramBins)
	return core.NewHash([]byte(key)).Short()
}

// Page assembles the full dashboard for condition c
func (b *Builder) Page(c loan.Condition) (*Page, error) {
	view, err := b.Condition(c)
	if err != nil {
		return nil, err
	}

	conditions := make([]string, len(loan.Conditions))
	for i, cond := range loan.Conditions {
		conditions[i] = cond.String()
	}

	return &Page{
		Title:       Title,
		DatasetID:   b.ds.ID().String(),
		Source:      b.ds.Source(),
		LoadedAt:    b.ds.LoadedAt(),
		Metrics:     b.metrics,
		TrendTabs:   b.trends,
		Performance: b.performance,
		Conditions:  conditions,
		Selected:    view,
	}, nil
}
