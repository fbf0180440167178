package service

import (
	"fmt"
	"sort"
	"time"

	"guardianearth/internal/cmd/users"
	dto "guardianearth/internal/entity"
)

// Period selects the bucket size of the dashboard trend series.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func ParsePeriod(raw string) (Period, bool) {
	switch Period(raw) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(raw), true
	case "":
		return PeriodMonthly, true
	}
	return "", false
}

type SeriesBucket struct {
	Bucket string  `json:"bucket"`
	Total  float64 `json:"total"`
}

type Summary struct {
	TotalDonations    float64        `json:"total_donations"`
	Savings           float64        `json:"savings"`
	BalanceAmount     float64        `json:"balance_amount"`
	DistributionRatio float64        `json:"distribution_ratio"`
	Series            []SeriesBucket `json:"series"`
}

// Summarize derives the dashboard figures from a record set. It is a pure
// function: no hidden state, same input gives the same output, and only
// Successful records count toward the money figures.
func Summarize(payments []*dto.Payment, retainedFraction float64, counts users.Counts, period Period) Summary {
	total := TotalDonations(payments)
	balance := total * retainedFraction

	ratio := 0.0
	if counts.Total > 0 {
		ratio = float64(counts.Active) / float64(counts.Total)
	}

	return Summary{
		TotalDonations:    total,
		Savings:           total - balance,
		BalanceAmount:     balance,
		DistributionRatio: ratio,
		Series:            Series(payments, period),
	}
}

// TotalDonations sums Successful records. Pending claims and failed attempts
// stay out of the totals no matter how often the dashboard refreshes.
func TotalDonations(payments []*dto.Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == dto.StatusSuccessful {
			total += float64(p.Amount)
		}
	}
	return total
}

// Series groups Successful records into chronological buckets for the trend
// chart, summing amounts per bucket, oldest first.
func Series(payments []*dto.Payment, period Period) []SeriesBucket {
	grouped := make(map[string]float64)
	for _, p := range payments {
		if p.Status != dto.StatusSuccessful {
			continue
		}
		grouped[bucketKey(p.CreatedAt, period)] += float64(p.Amount)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]SeriesBucket, 0, len(keys))
	for _, k := range keys {
		series = append(series, SeriesBucket{Bucket: k, Total: grouped[k]})
	}
	return series
}

func bucketKey(t time.Time, period Period) string {
	switch period {
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodYearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}
