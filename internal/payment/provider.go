package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Intent is the provider-side handle for a pending charge. ClientSecret
// goes back to the browser to complete the payment; ProviderRef comes
// back later in the confirmation.
type Intent struct {
	ProviderRef  string
	ClientSecret string
}

// Provider is the external payment processor, reduced to the one call
// this backend needs. Amount is in minor units.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency, description string) (*Intent, error)
}

// StubProvider issues synthetic intents. Stands in for the real
// processor in development and tests.
type StubProvider struct{}

func (StubProvider) CreateIntent(_ context.Context, amount int64, currency, _ string) (*Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("provider rejected non-positive amount %d %s", amount, currency)
	}

	ref := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{
		ProviderRef:  ref,
		ClientSecret: ref + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}
