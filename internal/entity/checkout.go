package domain

import (
	"strconv"
	"strings"
)

// Customer identifies the buyer on a checkout request.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ShippingDetails is the destination plus the shipping option the buyer picked.
// Price is the shipping cost in minor currency units, echoed back from the
// quote the client was shown.
type ShippingDetails struct {
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"countryCode"`
	MethodCode  string `json:"methodCode"`
	Price       int64  `json:"price"`
}

// LineItem is one cart entry. Price is in major units (e.g. pounds) as the
// storefront displays it; pricing math converts to minor units.
// Attributes carries variant selections (frame colour etc.). FrameColor and
// Frame are legacy aliases older clients still send.
type LineItem struct {
	ProductID  string            `json:"productId"`
	SKU        string            `json:"sku"`
	AssetURL   string            `json:"assetUrl"`
	Quantity   int               `json:"quantity"`
	Price      float64           `json:"price"`
	Attributes map[string]string `json:"attributes,omitempty"`
	FrameColor string            `json:"frameColor,omitempty"`
	Frame      string            `json:"frame,omitempty"`
}

// CheckoutRequest is the payload of POST /api/checkout.
type CheckoutRequest struct {
	Customer        Customer        `json:"customer"`
	Shipping        ShippingDetails `json:"shipping"`
	Items           []LineItem      `json:"items"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Notes           string          `json:"notes,omitempty"`
}

// Violation is one failed field check on a request boundary.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate returns every shape violation rather than stopping at the first.
func (r *CheckoutRequest) Validate() []Violation {
	var vs []Violation
	if strings.TrimSpace(r.Customer.Name) == "" {
		vs = append(vs, Violation{Field: "customer.name", Message: "customer name is required"})
	}
	if strings.TrimSpace(r.Customer.Email) == "" {
		vs = append(vs, Violation{Field: "customer.email", Message: "customer email is required"})
	}
	if strings.TrimSpace(r.Shipping.Address1) == "" {
		vs = append(vs, Violation{Field: "shipping.address1", Message: "shipping address is required"})
	}
	if strings.TrimSpace(r.Shipping.City) == "" {
		vs = append(vs, Violation{Field: "shipping.city", Message: "shipping city is required"})
	}
	if strings.TrimSpace(r.Shipping.Postcode) == "" {
		vs = append(vs, Violation{Field: "shipping.postcode", Message: "shipping postcode is required"})
	}
	if len(r.Items) == 0 {
		vs = append(vs, Violation{Field: "items", Message: "at least one item must be present in the cart"})
	}
	for i, it := range r.Items {
		prefix := "items[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(it.SKU) == "" {
			vs = append(vs, Violation{Field: prefix + ".sku", Message: "item SKU is required"})
		}
		if strings.TrimSpace(it.AssetURL) == "" {
			vs = append(vs, Violation{Field: prefix + ".assetUrl", Message: "item asset URL is required"})
		}
		if it.Price <= 0 {
			vs = append(vs, Violation{Field: prefix + ".price", Message: "item price must be positive"})
		}
	}
	if strings.TrimSpace(r.PaymentIntentID) == "" {
		vs = append(vs, Violation{Field: "paymentIntentId", Message: "payment intent reference is required"})
	}
	return vs
}
