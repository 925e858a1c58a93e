package domain

import "time"

// OrderUpdate is one webhook delivery appended to an order's history.
type OrderUpdate struct {
	ReceivedAt time.Time      `json:"receivedAt"`
	Payload    map[string]any `json:"payload"`
}

// OrderEntry is the ledger record for one submitted fulfilment order.
// Response holds the provider's acceptance body; Updates grows as webhook
// deliveries arrive and is never truncated.
type OrderEntry struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Response  map[string]any `json:"response"`
	Updates   []OrderUpdate  `json:"updates"`
}
