package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/subsense/internal/insights"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

// PDFData is everything the spend report needs, precomputed by the caller.
type PDFData struct {
	GeneratedAt   string
	Summary       insights.Summary
	Rollup        insights.Rollup
	Subscriptions []subscriptiondomain.Subscription
}

// SpendReportPDF renders the premium spend report: a summary block, the
// category breakdown and the full subscription table.
func SpendReportPDF(data PDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Subscription Spend Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated "+data.GeneratedAt, props.Text{Size: 9}),
	)

	m.AddRow(28,
		col.New(6).Add(
			text.New(fmt.Sprintf("Subscriptions: %d", data.Summary.Count), props.Text{Top: 0}),
			text.New(fmt.Sprintf("Monthly spend: %.2f", data.Summary.TotalMonthly), props.Text{Top: 5}),
			text.New(fmt.Sprintf("Yearly spend: %.2f", data.Summary.TotalYearly), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Unused: %d", data.Summary.UnusedCount), props.Text{Top: 0}),
			text.New(fmt.Sprintf("Potential savings: %.2f", data.Summary.PotentialSavings), props.Text{Top: 5}),
			text.New(fmt.Sprintf("Renewing this week: %d", data.Summary.UpcomingCount), props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Spend by category", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   2,
		}),
	)
	m.AddRow(8,
		text.NewCol(6, "Category", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Count", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Monthly", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Share", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, category := range data.Rollup.Categories {
		m.AddRow(7,
			text.NewCol(6, category.Category, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", category.Count), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", category.Total), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.1f%%", category.Percent), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Subscriptions", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   2,
		}),
	)
	m.AddRow(8,
		text.NewCol(4, "Service", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Category", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Cost", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Cycle", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Renews", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, s := range data.Subscriptions {
		m.AddRow(7,
			text.NewCol(4, s.ServiceName, props.Text{Size: 9}),
			text.NewCol(3, s.Category, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%.2f", s.MonthlyCost), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, string(s.BillingCycle), props.Text{Size: 9}),
			text.NewCol(2, formatDate(s.NextBillingDate), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
