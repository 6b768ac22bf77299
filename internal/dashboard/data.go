// Package dashboard presents stored Y-9C data with year-over-year
// comparisons. The dataset is owned by a Session handle created per
// invocation and loaded once; nothing here is package-global.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/bhcwatch/y9c/internal/storage"
)

// KeyMetrics shown on the summary cards, in display order.
var KeyMetrics = []struct {
	Code string
	Name string
}{
	{"BHCK2170", "Total Assets"},
	{"BHCK3210", "Total Equity"},
	{"BHCKB528", "Net Loans"},
	{"BHCK4074", "Net Interest Income"},
	{"BHCK4340", "Net Income"},
	{"BHCK4079", "Noninterest Income"},
}

// Session holds one institution's loaded dataset for the lifetime of a
// dashboard invocation.
type Session struct {
	records []storage.RecordWithItem
	periods []storage.Period
	byKey   map[periodKey]map[string]float64
	rssdID  string
}

type periodKey struct {
	year    int
	quarter int
}

// DataSource is the read surface a Session needs.
type DataSource interface {
	AllRecords(ctx context.Context, rssdID string) ([]storage.RecordWithItem, error)
	Periods(ctx context.Context, rssdID string) ([]storage.Period, error)
}

// NewSession loads the dataset for one institution.
func NewSession(ctx context.Context, src DataSource, rssdID string) (*Session, error) {
	records, err := src.AllRecords(ctx, rssdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	periods, err := src.Periods(ctx, rssdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load periods: %w", err)
	}

	byKey := make(map[periodKey]map[string]float64)
	for _, rec := range records {
		key := periodKey{rec.Year, rec.Quarter}
		if byKey[key] == nil {
			byKey[key] = make(map[string]float64)
		}
		byKey[key][rec.Code] = rec.Value
	}

	return &Session{
		records: records,
		periods: periods,
		byKey:   byKey,
		rssdID:  rssdID,
	}, nil
}

// RSSDID returns the institution the session was loaded for.
func (s *Session) RSSDID() string {
	return s.rssdID
}

// Periods returns the available reporting periods, ordered by year and quarter.
func (s *Session) Periods() []storage.Period {
	return s.periods
}

// Value returns a code's value for one period.
func (s *Session) Value(year, quarter int, code string) (float64, bool) {
	values, ok := s.byKey[periodKey{year, quarter}]
	if !ok {
		return 0, false
	}
	v, ok := values[code]
	return v, ok
}

// YoYChange computes the year-over-year percentage change
// (current-prior)/|prior|*100. The result is undefined (nil) when the prior
// value is zero or either side is absent.
func YoYChange(current, prior *float64) *float64 {
	if current == nil || prior == nil || *prior == 0 {
		return nil
	}
	change := (*current - *prior) / abs(*prior) * 100
	return &change
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// MetricStat is one key metric's current value with its year-over-year delta.
type MetricStat struct {
	YoY     *float64
	Current *float64
	Prior   *float64
	Name    string
	Code    string
}

// SummaryStats computes the key-metric cards for one quarter against the
// same quarter one year earlier.
func (s *Session) SummaryStats(year, quarter int) []MetricStat {
	stats := make([]MetricStat, 0, len(KeyMetrics))

	for _, metric := range KeyMetrics {
		var current, prior *float64
		if v, ok := s.Value(year, quarter, metric.Code); ok {
			current = &v
		}
		if v, ok := s.Value(year-1, quarter, metric.Code); ok {
			prior = &v
		}

		stats = append(stats, MetricStat{
			Name:    metric.Name,
			Code:    metric.Code,
			Current: current,
			Prior:   prior,
			YoY:     YoYChange(current, prior),
		})
	}

	return stats
}

// SeriesPoint is one period's observation for a metric.
type SeriesPoint struct {
	Label string
	Value float64
}

// Series returns the full quarterly series for one code, ordered by period.
func (s *Session) Series(code string) []SeriesPoint {
	type dated struct {
		year    int
		quarter int
		value   float64
	}

	var observations []dated
	for key, values := range s.byKey {
		if v, ok := values[code]; ok {
			observations = append(observations, dated{key.year, key.quarter, v})
		}
	}

	sort.Slice(observations, func(i, j int) bool {
		if observations[i].year != observations[j].year {
			return observations[i].year < observations[j].year
		}
		return observations[i].quarter < observations[j].quarter
	})

	points := make([]SeriesPoint, len(observations))
	for i, o := range observations {
		points[i] = SeriesPoint{
			Label: fmt.Sprintf("%d Q%d", o.year, o.quarter),
			Value: o.value,
		}
	}
	return points
}

// StatementLines returns the account-name/value pairs of one statement type
// for a period, ordered by category then account name.
func (s *Session) StatementLines(year, quarter int, statement string) []SeriesPoint {
	type line struct {
		category string
		name     string
		value    float64
	}

	var lines []line
	for _, rec := range s.records {
		if rec.Year == year && rec.Quarter == quarter && string(rec.Statement) == statement {
			lines = append(lines, line{rec.Category, rec.AccountName, rec.Value})
		}
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].category != lines[j].category {
			return lines[i].category < lines[j].category
		}
		return lines[i].name < lines[j].name
	})

	points := make([]SeriesPoint, len(lines))
	for i, l := range lines {
		points[i] = SeriesPoint{Label: l.name, Value: l.value}
	}
	return points
}

// FormatValue renders a currency value compactly ($1.23B / $45.6M / $789.0K).
func FormatValue(v float64) string {
	a := abs(v)
	switch {
	case a >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case a >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
