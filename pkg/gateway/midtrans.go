package gateway

import (
	"context"
	"crypto/sha512"
	"fmt"
	"strconv"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/iris"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway adapts the Midtrans Snap + Iris APIs to the
// PaymentGateway port.
type MidtransGateway struct {
	serverKey  string
	irisKey    string
	env        midtrans.EnvironmentType
	finishURL  string
	snapClient snap.Client
	irisClient iris.Client
}

func NewMidtransGateway(serverKey, irisKey string, production bool, finishURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{
		serverKey: serverKey,
		irisKey:   irisKey,
		env:       env,
		finishURL: finishURL,
	}
	g.snapClient.New(serverKey, env)
	g.irisClient.New(irisKey, env)
	return g
}

func (g *MidtransGateway) CreateCharge(ctx context.Context, orderId string, amount float64, description, customerEmail string) (*Charge, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: int64(amount),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: customerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderId,
				Price: int64(amount),
				Qty:   1,
				Name:  description,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, midErr := g.snapClient.CreateTransaction(req)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}
	return &Charge{
		OrderRef:    orderId,
		Token:       resp.Token,
		RedirectUrl: resp.RedirectURL,
	}, nil
}

// VerifySignature checks the Midtrans notification signature:
// SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderId, statusCode, grossAmount, signature string) bool {
	input := orderId + statusCode + grossAmount + g.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return signature == expected
}

// ChargeRenewal opens a renewal charge. Midtrans has no true off-session
// card charge without a saved token, so acceptance of the transaction is
// treated as renewal success; a rejected or unreachable gateway is a
// renewal failure and the caller falls through to expiry.
func (g *MidtransGateway) ChargeRenewal(ctx context.Context, orderId string, amount float64, customerEmail string) error {
	_, err := g.CreateCharge(ctx, orderId, amount, "subscription renewal", customerEmail)
	return err
}

func (g *MidtransGateway) CreatePayout(ctx context.Context, amount float64, bankAccount, bankCode, notes string) (string, error) {
	req := iris.CreatePayoutReq{
		Payouts: []iris.CreatePayoutDetailReq{
			{
				BeneficiaryName:    notes,
				BeneficiaryAccount: bankAccount,
				BeneficiaryBank:    bankCode,
				Amount:             strconv.FormatFloat(amount, 'f', 2, 64),
				Notes:              notes,
			},
		},
	}
	resp, midErr := g.irisClient.CreatePayout(req)
	if midErr != nil {
		return "", fmt.Errorf("midtrans payout error: %v", midErr.GetMessage())
	}
	if len(resp.Payouts) == 0 {
		return "", fmt.Errorf("midtrans payout: empty response")
	}
	return resp.Payouts[0].ReferenceNo, nil
}
