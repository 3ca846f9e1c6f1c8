// Package extractor maps unstructured receipt text to structured
// subscription candidates through a declarative vendor signature table.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smallbiznis/subsense/internal/config"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MinInputLength is the minimum practical input size. Enforced by callers
// before invoking Extract, not by the extractor itself.
const MinInputLength = 50

// Result is one detected subscription candidate. NextBillingDate is the raw
// matched substring; calendar interpretation is the caller's job. A nil
// MonthlyCost never reaches Results (price-less matches land in NoPrice).
type Result struct {
	VendorID        string                          `json:"vendor_id"`
	ServiceName     string                          `json:"service_name"`
	Category        string                          `json:"category"`
	BillingCycle    subscriptiondomain.BillingCycle `json:"billing_cycle"`
	MonthlyCost     float64                         `json:"monthly_cost"`
	NextBillingDate string                          `json:"next_billing_date,omitempty"`
}

// Extraction is the full outcome of one Extract call. NoPrice lists vendors
// whose name matched but whose price pattern found nothing; they are
// surfaced for diagnostics only and never produce records.
type Extraction struct {
	Results []Result `json:"results"`
	NoPrice []string `json:"no_price,omitempty"`
}

var (
	yearlyHint = regexp.MustCompile(`(?i)annual|yearly|year`)

	// Date patterns in fixed priority order; first match anywhere wins.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`(?i)(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`),
	}

	thousandsSep = strings.NewReplacer(",", "")
)

type Params struct {
	fx.In

	Log       *zap.Logger
	VendorCfg *config.VendorConfigHolder `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	vendorCfg *config.VendorConfigHolder
	defaults  []signature
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("extractor"),
		vendorCfg: p.VendorCfg,
		defaults:  defaultSignatures(),
	}
}

// Extract tests every vendor signature against text independently and
// returns one result per vendor that matched with a price. It is a pure
// function of the input and the active signature table: no side effects,
// and malformed input yields an empty extraction rather than an error.
func (s *Service) Extract(text string) Extraction {
	var out Extraction

	// Cycle inference is global per input, applied to every vendor matched
	// in this text.
	cycle := subscriptiondomain.BillingCycleMonthly
	if yearlyHint.MatchString(text) {
		cycle = subscriptiondomain.BillingCycleYearly
	}

	nextBilling := firstDateMatch(text)

	for _, sig := range s.signatures() {
		loc := sig.namePattern.FindStringIndex(text)
		if loc == nil {
			continue
		}

		// Scope the price search to the text following the vendor mention so
		// a multi-vendor email pairs each vendor with its own price; fall
		// back to the full text when the amount precedes the name.
		price, ok := extractPrice(sig.pricePattern, text[loc[1]:])
		if !ok {
			price, ok = extractPrice(sig.pricePattern, text)
		}
		if !ok {
			out.NoPrice = append(out.NoPrice, sig.displayName)
			continue
		}

		out.Results = append(out.Results, Result{
			VendorID:        sig.vendorID,
			ServiceName:     sig.displayName,
			Category:        sig.category,
			BillingCycle:    cycle,
			MonthlyCost:     price,
			NextBillingDate: nextBilling,
		})
	}

	return out
}

// signatures returns the active vendor table: a valid file override when one
// is loaded, the built-in table otherwise.
func (s *Service) signatures() []signature {
	if s.vendorCfg != nil {
		if override := s.vendorCfg.Get().Vendors; len(override) > 0 {
			compiled, err := compileSignatures(override)
			if err == nil {
				return compiled
			}
			s.log.Warn("vendor override table rejected", zap.Error(err))
		}
	}
	return s.defaults
}

// extractPrice pulls the first captured amount group, strips thousands
// separators and parses it. Fails closed: any parse trouble means no price.
func extractPrice(pattern *regexp.Regexp, text string) (float64, bool) {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 || match[1] == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(thousandsSep.Replace(match[1]), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func firstDateMatch(text string) string {
	for _, pattern := range datePatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return ""
}
