package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

// SubscriptionsCSV renders the subscription table. encoding/csv handles
// quoting, so service names containing commas or quotes survive round trips.
func SubscriptionsCSV(subs []subscriptiondomain.Subscription) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"Service", "Category", "Cost", "Billing Cycle", "Next Billing Date", "Last Used",
	}); err != nil {
		return nil, err
	}
	for _, s := range subs {
		record := []string{
			s.ServiceName,
			s.Category,
			strconv.FormatFloat(s.MonthlyCost, 'f', 2, 64),
			string(s.BillingCycle),
			formatDate(s.NextBillingDate),
			formatDate(s.LastUsedDate),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UsageCSV renders the usage history view.
func UsageCSV(subs []subscriptiondomain.Subscription) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Service", "Usage Score", "Last Used"}); err != nil {
		return nil, err
	}
	for _, s := range subs {
		record := []string{
			s.ServiceName,
			strconv.Itoa(s.UsageScore),
			formatDate(s.LastUsedDate),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
