package gateway

import "context"

// ExternalStatus is the provider-reported state of one payment attempt.
type ExternalStatus string

const (
	StatusPending ExternalStatus = "PENDING"
	StatusPaid    ExternalStatus = "PAID"
	StatusFailed  ExternalStatus = "FAILED"
)

// Attempt identifies one checkout attempt at the provider.
type Attempt struct {
	ID          string
	RedirectURL string
}

// CreateAttemptRequest carries everything the provider needs to open a
// checkout session. Amounts are integral minor currency units.
type CreateAttemptRequest struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Gateway is the boundary to the external payment provider. The provider is
// the source of truth for attempt status; local records only cache the last
// reconciled value.
type Gateway interface {
	CreateAttempt(ctx context.Context, req CreateAttemptRequest) (*Attempt, error)
	GetStatus(ctx context.Context, attemptID string) (ExternalStatus, error)
}
