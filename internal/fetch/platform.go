package fetch

import (
	"net/url"
	"strings"
)

// Storefront represents a known e-commerce platform.
type Storefront string

const (
	StorefrontAmazon  Storefront = "amazon"
	StorefrontShopify Storefront = "shopify"
	StorefrontEtsy    Storefront = "etsy"
	StorefrontUnknown Storefront = "unknown"
)

// DetectStorefront identifies the storefront platform from a URL.
func DetectStorefront(rawURL string) Storefront {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return StorefrontUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case hostMatches(host, "amazon"):
		return StorefrontAmazon
	case strings.HasSuffix(host, ".myshopify.com"):
		return StorefrontShopify
	case host == "etsy.com" || strings.HasSuffix(host, ".etsy.com"):
		return StorefrontEtsy
	default:
		return StorefrontUnknown
	}
}

// hostMatches reports whether host is brand.<tld> or a subdomain of it,
// e.g. amazon.com, www.amazon.co.uk.
func hostMatches(host, brand string) bool {
	labels := strings.Split(host, ".")
	for i, label := range labels {
		if label == brand && i < len(labels)-1 {
			return true
		}
	}
	return false
}

// StorefrontSelectors returns product selectors for a storefront, followed by
// the generic product selectors.
func StorefrontSelectors(sf Storefront) []string {
	var specific []string
	switch sf {
	case StorefrontAmazon:
		specific = []string{"#productTitle", "#feature-bullets", "#productDescription", "#aplus"}
	case StorefrontShopify:
		specific = []string{".product__info-container", ".product-single__description", ".product__description"}
	case StorefrontEtsy:
		specific = []string{"[data-buy-box-region]", "#listing-page-cart", "[data-product-details-description-text-content]"}
	}
	return append(specific, DefaultProductSelectors()...)
}
