package extractor

import (
	"strings"
	"testing"

	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(Params{Log: zap.NewNop()})
}

func TestExtractSingleVendorMonthly(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Your Netflix membership payment of ₹649 was successful. Thanks for staying with us.")

	require.Len(t, out.Results, 1)
	got := out.Results[0]
	assert.Equal(t, "Netflix", got.ServiceName)
	assert.Equal(t, "Streaming", got.Category)
	assert.Equal(t, subscriptiondomain.BillingCycleMonthly, got.BillingCycle)
	assert.Equal(t, 649.0, got.MonthlyCost)
}

func TestExtractAnnualCycleHint(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Receipt: GitHub Pro, annual plan. Amount charged: $10. See you next year.")

	require.Len(t, out.Results, 1)
	got := out.Results[0]
	assert.Equal(t, "GitHub", got.ServiceName)
	assert.Equal(t, "Development", got.Category)
	assert.Equal(t, subscriptiondomain.BillingCycleYearly, got.BillingCycle)
	assert.Equal(t, 10.0, got.MonthlyCost)
}

func TestExtractMultiVendorOwnPrices(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Summary of charges. Netflix plan renewed at ₹649 this period. Spotify Premium billed ₹199 for the same window.")

	require.Len(t, out.Results, 2)
	assert.Equal(t, "Netflix", out.Results[0].ServiceName)
	assert.Equal(t, 649.0, out.Results[0].MonthlyCost)
	assert.Equal(t, "Spotify", out.Results[1].ServiceName)
	assert.Equal(t, 199.0, out.Results[1].MonthlyCost)
}

func TestExtractTableOrderPreserved(t *testing.T) {
	svc := newTestService(t)

	// Spotify appears first in the text but Netflix sits earlier in the
	// vendor table; output follows table order.
	out := svc.Extract("Spotify Premium ₹199 renewed today, and your Netflix plan was charged ₹649 as usual.")

	require.Len(t, out.Results, 2)
	assert.Equal(t, "netflix", out.Results[0].VendorID)
	assert.Equal(t, "spotify", out.Results[1].VendorID)
}

func TestExtractCycleIsGlobalPerInput(t *testing.T) {
	svc := newTestService(t)

	// One annual mention flips every match in the input to yearly.
	out := svc.Extract("Netflix ₹649 charged this month. GitHub annual plan renewed for $100 as well, thanks.")

	require.Len(t, out.Results, 2)
	for _, r := range out.Results {
		assert.Equal(t, subscriptiondomain.BillingCycleYearly, r.BillingCycle)
	}
}

func TestExtractNoVendor(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Thank you for shopping with us. Your order total was ₹2,499 and will arrive on Friday.")

	assert.Empty(t, out.Results)
	assert.Empty(t, out.NoPrice)
}

func TestExtractVendorWithoutPriceIsDiagnosticOnly(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Heads up: your Netflix plan changes next cycle. No charge was made this period at all.")

	assert.Empty(t, out.Results)
	assert.Equal(t, []string{"Netflix"}, out.NoPrice)
}

func TestExtractThousandsSeparatorStripped(t *testing.T) {
	svc := newTestService(t)

	out := svc.Extract("Adobe Creative Cloud yearly invoice: total amount ₹4,999.00 charged to your saved card today.")

	require.Len(t, out.Results, 1)
	assert.Equal(t, 4999.0, out.Results[0].MonthlyCost)
	assert.Equal(t, subscriptiondomain.BillingCycleYearly, out.Results[0].BillingCycle)
}

func TestExtractDatePriority(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "numeric_dmy_wins",
			text: "Netflix ₹649 renews 15/09/2026 also noted as 2026-09-15 in the footer of this email.",
			want: "15/09/2026",
		},
		{
			name: "iso_when_no_numeric",
			text: "Netflix ₹649 will renew on 2026-09-15 according to your current plan settings, thanks.",
			want: "2026-09-15",
		},
		{
			name: "long_form_fallback",
			text: "Netflix ₹649 renews on September 15, 2026 unless you cancel before the renewal date.",
			want: "September 15, 2026",
		},
		{
			name: "absent",
			text: "Netflix ₹649 charged. No renewal information is included in this receipt whatsoever, sorry.",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := svc.Extract(tc.text)
			require.Len(t, out.Results, 1)
			assert.Equal(t, tc.want, out.Results[0].NextBillingDate)
		})
	}
}

func TestExtractNeverPanicsOnGarbage(t *testing.T) {
	svc := newTestService(t)

	inputs := []string{
		"",
		"₹₹₹$$$",
		strings.Repeat("a", 10_000),
		"netflix netflix netflix ₹ Rs. INR $",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { svc.Extract(in) })
	}
}

func TestDefaultSignaturesCompile(t *testing.T) {
	assert.NotPanics(t, func() { defaultSignatures() })
	assert.Len(t, defaultSignatures(), 13)
}
