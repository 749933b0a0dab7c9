package domain

// PaymentIntent is a provider-side pending-charge handle. It is returned
// to the client for completing payment and is not persisted; the later
// confirmation carries the provider reference back.
type PaymentIntent struct {
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"` // minor units
	Currency     string `json:"currency"`
	ProviderRef  string `json:"providerRef"`
	ClientSecret string `json:"clientSecret"`
}
