package prodigi

// Wire schema for the Prodigi v4 order submission API.

type Order struct {
	MerchantReference string       `json:"merchantReference"`
	IdempotencyKey    string       `json:"idempotencyKey"`
	ShippingMethod    string       `json:"shippingMethod"`
	Recipient         Recipient    `json:"recipient"`
	Items             []Item       `json:"items"`
	PackingSlip       *PackingSlip `json:"packingSlip,omitempty"`
}

type Recipient struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

type Address struct {
	Line1           string `json:"line1"`
	Line2           string `json:"line2,omitempty"`
	TownOrCity      string `json:"townOrCity"`
	PostalOrZipCode string `json:"postalOrZipCode"`
	CountryCode     string `json:"countryCode"`
}

type Item struct {
	SKU               string            `json:"sku"`
	Copies            int               `json:"copies"`
	Sizing            string            `json:"sizing"`
	MerchantReference string            `json:"merchantReference"`
	Assets            []Asset           `json:"assets"`
	Attributes        map[string]string `json:"attributes,omitempty"`
}

type Asset struct {
	PrintArea string `json:"printArea"`
	URL       string `json:"url"`
}

type PackingSlip struct {
	Message string `json:"message"`
}
