package analysis

import (
	"fmt"
	"math"
	"sort"

	"loandash/domain/core"
	"loandash/domain/loan"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width binning of loan amounts, split by term.
// Every series shares Edges, so len(Counts) == len(Edges)-1.
type Histogram struct {
	Edges  []float64         `json:"edges"`
	Series []HistogramSeries `json:"series"`
}

// HistogramSeries holds the per-bin counts for one term
type HistogramSeries struct {
	Term   string    `json:"term"`
	Counts []float64 `json:"counts"`
}

// Total returns the number of loans across all series and bins
func (h Histogram) Total() int {
	n := 0.0
	for _, s := range h.Series {
		n += floats.Sum(s.Counts)
	}
	return int(n)
}

// AmountHistogram bins the loan amounts into bins equal-width buckets spanning
// the subset's minimum to maximum amount. The maximum falls in the last bin.
func AmountHistogram(ds *loan.Dataset, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	if ds.Len() == 0 {
		return Histogram{}, nil
	}

	amounts := ds.Amounts()
	for i, v := range amounts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Histogram{}, fmt.Errorf("%w: loan %d has amount %v", core.ErrInvalidCell, ds.At(i).ID, v)
		}
	}
	lo, hi := floats.Min(amounts), floats.Max(amounts)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram uses half-open bins; widen the top divider so the
	// maximum amount is counted instead of rejected.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	byTerm := make(map[string][]float64)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		byTerm[r.Term] = append(byTerm[r.Term], r.LoanAmount)
	}

	h := Histogram{Edges: edges}
	for _, term := range Terms(ds) {
		x := byTerm[term]
		sort.Float64s(x)
		h.Series = append(h.Series, HistogramSeries{
			Term:   term,
			Counts: stat.Histogram(nil, dividers, x, nil),
		})
	}
	return h, nil
}

// BoxStats summarises the amounts of one purpose/term group
type BoxStats struct {
	Purpose    string    `json:"purpose"`
	Term       string    `json:"term"`
	N          int       `json:"n"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers"`
}

// AmountBoxes computes box-plot statistics of loan amount for every
// purpose/term combination, ordered by purpose then term.
func AmountBoxes(ds *loan.Dataset) ([]BoxStats, error) {
	type key struct{ purpose, term string }
	groups := make(map[key][]float64)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		k := key{r.Purpose, r.Term}
		groups[k] = append(groups[k], r.LoanAmount)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].purpose != keys[j].purpose {
			return keys[i].purpose < keys[j].purpose
		}
		return keys[i].term < keys[j].term
	})

	boxes := make([]BoxStats, 0, len(keys))
	for _, k := range keys {
		box, err := Box(groups[k])
		if err != nil {
			return nil, fmt.Errorf("box for %s/%s: %w", k.purpose, k.term, err)
		}
		box.Purpose, box.Term = k.purpose, k.term
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// Box computes quartiles (median-of-halves method), 1.5 IQR whiskers clamped
// to the data, and the points outside them.
func Box(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, core.ErrEmptyDataset
	}

	data := stats.Float64Data(values)
	min, err := data.Min()
	if err != nil {
		return BoxStats{}, err
	}
	max, err := data.Max()
	if err != nil {
		return BoxStats{}, err
	}

	box := BoxStats{N: len(values), Min: min, Max: max}
	if len(values) == 1 {
		box.Q1, box.Median, box.Q3 = min, min, min
		box.LowerFence, box.UpperFence = min, max
		return box, nil
	}

	q, err := stats.Quartile(data)
	if err != nil {
		return BoxStats{}, err
	}
	box.Q1, box.Median, box.Q3 = q.Q1, q.Q2, q.Q3

	iqr := q.Q3 - q.Q1
	lowLimit, highLimit := q.Q1-1.5*iqr, q.Q3+1.5*iqr
	box.LowerFence, box.UpperFence = max, min
	for _, v := range values {
		if v < lowLimit || v > highLimit {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerFence = math.Min(box.LowerFence, v)
		box.UpperFence = math.Max(box.UpperFence, v)
	}
	sort.Float64s(box.Outliers)
	return box, nil
}
