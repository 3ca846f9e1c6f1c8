package extractor

import (
	"regexp"

	"github.com/smallbiznis/subsense/internal/config"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

// signature is one compiled vendor table entry. namePattern is matched
// case-insensitively against the full input; pricePattern's first capture
// group is the amount, scoped to the currency that vendor bills in.
type signature struct {
	vendorID     string
	namePattern  *regexp.Regexp
	pricePattern *regexp.Regexp
	category     string
	displayName  string
}

const (
	// INR-billed vendors: rupee symbol, Rs. or INR prefixes.
	inrPrice = `(?:₹|Rs\.?\s*|INR\s*)(\d+(?:,\d{3})*(?:\.\d{2})?)`
	// USD-billed vendors.
	usdPrice = `\$\s*(\d+(?:\.\d{2})?)`
	// Vendors that bill in either currency depending on region.
	anyPrice = `(?:₹|Rs\.?\s*|INR\s*|\$\s*)(\d+(?:,\d{3})*(?:\.\d{2})?)`
)

// defaultSignatures is the built-in vendor table. Order is fixed: results
// are emitted in this order when one email mentions several services.
func defaultSignatures() []signature {
	entries := []config.VendorSignature{
		{ID: "netflix", NamePattern: `netflix`, PricePattern: inrPrice, Category: subscriptiondomain.CategoryStreaming, DisplayName: "Netflix"},
		{ID: "spotify", NamePattern: `spotify`, PricePattern: inrPrice, Category: subscriptiondomain.CategoryStreaming, DisplayName: "Spotify"},
		{ID: "amazon-prime", NamePattern: `amazon\s*prime`, PricePattern: inrPrice, Category: subscriptiondomain.CategoryStreaming, DisplayName: "Amazon Prime"},
		{ID: "github", NamePattern: `github`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryDevelopment, DisplayName: "GitHub"},
		{ID: "notion", NamePattern: `notion`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryProductivity, DisplayName: "Notion"},
		{ID: "openai", NamePattern: `openai|chatgpt`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryAI, DisplayName: "OpenAI"},
		{ID: "claude", NamePattern: `anthropic|claude`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryAI, DisplayName: "Claude"},
		{ID: "vercel", NamePattern: `vercel`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryDevelopment, DisplayName: "Vercel"},
		{ID: "canva", NamePattern: `canva`, PricePattern: anyPrice, Category: subscriptiondomain.CategoryDesign, DisplayName: "Canva"},
		{ID: "figma", NamePattern: `figma`, PricePattern: usdPrice, Category: subscriptiondomain.CategoryDesign, DisplayName: "Figma"},
		{ID: "adobe", NamePattern: `adobe`, PricePattern: anyPrice, Category: subscriptiondomain.CategoryDesign, DisplayName: "Adobe"},
		{ID: "dropbox", NamePattern: `dropbox`, PricePattern: anyPrice, Category: subscriptiondomain.CategoryCloudStorage, DisplayName: "Dropbox"},
		{ID: "youtube", NamePattern: `youtube\s*premium`, PricePattern: inrPrice, Category: subscriptiondomain.CategoryStreaming, DisplayName: "YouTube Premium"},
	}

	compiled, err := compileSignatures(entries)
	if err != nil {
		// The built-in table is constant; a compile failure is a programming
		// error caught by the package tests.
		panic(err)
	}
	return compiled
}

func compileSignatures(entries []config.VendorSignature) ([]signature, error) {
	out := make([]signature, 0, len(entries))
	for _, e := range entries {
		name, err := regexp.Compile("(?i)" + e.NamePattern)
		if err != nil {
			return nil, err
		}
		price, err := regexp.Compile(e.PricePattern)
		if err != nil {
			return nil, err
		}
		category := e.Category
		if category == "" {
			category = subscriptiondomain.CategoryOther
		}
		out = append(out, signature{
			vendorID:     e.ID,
			namePattern:  name,
			pricePattern: price,
			category:     category,
			displayName:  e.DisplayName,
		})
	}
	return out, nil
}
