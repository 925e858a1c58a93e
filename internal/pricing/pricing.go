// Package pricing holds the storefront's cart math: the shipping option
// table and the subtotal/shipping/total breakdown. All amounts leave this
// package in minor currency units so the payment amount is derived from
// the same numbers the buyer was shown.
package pricing

import (
	"math"
	"strings"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
)

const Currency = "gbp"

// Flat rate across every destination the storefront ships to.
const shippingPriceMinor = 899

type ShippingOption struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Countries  []string `json:"countries"`
	PriceMinor int64    `json:"price"`
	MethodCode string   `json:"methodCode"`
}

var options = []ShippingOption{
	{
		ID:         "standard-tracked-uk",
		Label:      "Standard Tracked (UK)",
		Countries:  []string{"GB"},
		PriceMinor: shippingPriceMinor,
		MethodCode: "Budget",
	},
	{
		ID:         "standard-tracked-eu",
		Label:      "Standard Tracked (Europe)",
		Countries:  []string{"DE", "FR", "ES", "IT", "IE", "NL", "BE", "SE", "NO", "DK", "FI", "PT", "AT", "CH"},
		PriceMinor: shippingPriceMinor,
		MethodCode: "Budget",
	},
	{
		ID:         "standard-tracked-us",
		Label:      "Standard Tracked (US)",
		Countries:  []string{"US"},
		PriceMinor: shippingPriceMinor,
		MethodCode: "Budget",
	},
}

// Options returns the full shipping table in display order.
func Options() []ShippingOption {
	return append([]ShippingOption(nil), options...)
}

// OptionByID returns nil when the id is unknown.
func OptionByID(id string) *ShippingOption {
	for i := range options {
		if options[i].ID == id {
			return &options[i]
		}
	}
	return nil
}

// OptionForCountry picks the option covering the destination, falling
// back to the first entry for unlisted countries.
func OptionForCountry(countryCode string) *ShippingOption {
	if countryCode == "" {
		return &options[0]
	}
	code := strings.ToUpper(countryCode)
	for i := range options {
		for _, c := range options[i].Countries {
			if c == code {
				return &options[i]
			}
		}
	}
	return &options[0]
}

// Subtotal sums the cart in minor units. Item prices arrive in major
// units (as displayed), so each line is rounded before multiplying by
// quantity.
func Subtotal(items []domain.LineItem) int64 {
	var total int64
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += int64(math.Round(it.Price*100)) * int64(qty)
	}
	return total
}

// ShippingCost is zero for an empty cart regardless of option.
func ShippingCost(items []domain.LineItem, opt *ShippingOption) int64 {
	if len(items) == 0 || opt == nil {
		return 0
	}
	return opt.PriceMinor
}

func Total(items []domain.LineItem, opt *ShippingOption) int64 {
	return Subtotal(items) + ShippingCost(items, opt)
}
