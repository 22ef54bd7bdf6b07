package gateway

import "context"

// Charge is the handle returned for a hosted checkout: the token is what the
// storefront hitches its payment widget to.
type Charge struct {
	OrderRef    string
	Token       string
	RedirectUrl string
}

// PaymentGateway is the narrow contract the core needs from the payment
// provider: open a charge, verify a notification signature, push a payout.
// Gateway-specific request/response shapes stay behind this interface.
type PaymentGateway interface {
	// CreateCharge opens a hosted payment for the given order id and
	// returns the handle the buyer completes it with.
	CreateCharge(ctx context.Context, orderId string, amount float64, description, customerEmail string) (*Charge, error)

	// VerifySignature checks a server-to-server notification's signature
	// against the configured server key.
	VerifySignature(orderId, statusCode, grossAmount, signature string) bool

	// ChargeRenewal attempts an off-session charge for an autopay renewal.
	// A nil error means the gateway accepted the charge.
	ChargeRenewal(ctx context.Context, orderId string, amount float64, customerEmail string) error

	// CreatePayout initiates an admin withdrawal and returns the gateway's
	// payout reference.
	CreatePayout(ctx context.Context, amount float64, bankAccount, bankCode, notes string) (string, error)
}
