package source

import (
	"context"
	"time"

	"loandash/adapters/excel"
	"loandash/adapters/postgres"
	"loandash/domain/loan"
	"loandash/internal"
	"loandash/internal/config"
	"loandash/internal/errors"
	"loandash/ports"
)

// Open picks the loan source named by the configuration. The returned
// closer releases any connection the source holds.
func Open(ctx context.Context, cfg *config.Config) (ports.LoanSource, func(), error) {
	if cfg.UsesDatabase() {
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewLoanRepository(db), func() { db.Close() }, nil
	}
	return excel.NewLoanSource(excel.DefaultExcelConfig(cfg.Data.LoanFile)), func() {}, nil
}

// Load opens the configured source, reads the whole table and closes the source
func Load(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*loan.Dataset, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("Loader")

	src, closeSource, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	start := time.Now()
	logger.Info("Loading loans from %s", src.Describe())
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, errors.DatasetError("failed to load loans from "+src.Describe(), err)
	}
	logger.Info("Loaded %d loans in %s (dataset %s)", ds.Len(), time.Since(start).Round(time.Millisecond), ds.ID())

	if n, first := weekdayMismatches(ds); n > 0 {
		logger.Warn("%d loans have an issue_weekday that disagrees with issue_date (first: id %d); weekday charts use the column value", n, first)
	}
	return ds, nil
}

// weekdayMismatches counts records whose stored weekday is not the weekday of
// their issue date, and returns the id of the first one
func weekdayMismatches(ds *loan.Dataset) (int, int64) {
	var n int
	var first int64
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if r.IssueWeekday == r.IssueDate.Weekday() {
			continue
		}
		if n == 0 {
			first = r.ID
		}
		n++
	}
	return n, first
}
