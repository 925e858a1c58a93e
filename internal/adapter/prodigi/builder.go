package prodigi

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
)

const (
	// DefaultShippingMethod is used when the request names no method code.
	DefaultShippingMethod = "Budget"

	defaultCountryCode = "GB"
	defaultSizing      = "fillPrintArea"
)

// BuildOrder maps a validated checkout request onto the provider's order
// schema. Pure: the submission time is an argument so the derived
// idempotency key is the caller's choice. Two builds at different times
// carry different keys, so provider-side retry dedup treats them as
// distinct submissions.
func BuildOrder(req *domain.CheckoutRequest, now time.Time) Order {
	method := req.Shipping.MethodCode
	if method == "" {
		method = DefaultShippingMethod
	}

	country := strings.ToUpper(req.Shipping.CountryCode)
	if country == "" {
		country = defaultCountryCode
	}

	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = buildItem(it, i)
	}

	order := Order{
		MerchantReference: req.Customer.Email,
		IdempotencyKey:    fmt.Sprintf("%s-%d", req.Customer.Email, now.UnixMilli()),
		ShippingMethod:    method,
		Recipient: Recipient{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Address: Address{
				Line1:           req.Shipping.Address1,
				Line2:           req.Shipping.Address2,
				TownOrCity:      req.Shipping.City,
				PostalOrZipCode: req.Shipping.Postcode,
				CountryCode:     country,
			},
		},
		Items: items,
	}
	if req.Notes != "" {
		order.PackingSlip = &PackingSlip{Message: req.Notes}
	}
	return order
}

func buildItem(it domain.LineItem, index int) Item {
	copies := it.Quantity
	if copies < 1 {
		copies = 1
	}
	return Item{
		SKU:               it.SKU,
		Copies:            copies,
		Sizing:            defaultSizing,
		MerchantReference: fmt.Sprintf("%s-%d", it.ProductID, index),
		Assets:            []Asset{{PrintArea: "default", URL: it.AssetURL}},
		Attributes:        normaliseAttributes(it),
	}
}

// normaliseAttributes lowercases variant names and values and returns nil
// when the item carries none, so the field is omitted from the wire
// payload entirely. frameColor/frame are legacy aliases for a color
// attribute.
func normaliseAttributes(it domain.LineItem) map[string]string {
	out := map[string]string{}
	for name, value := range it.Attributes {
		if name == "" || value == "" {
			continue
		}
		out[strings.ToLower(name)] = strings.ToLower(value)
	}
	if len(out) == 0 {
		if v := firstNonEmpty(it.FrameColor, it.Frame); v != "" {
			out["color"] = strings.ToLower(v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
