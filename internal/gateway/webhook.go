package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadSignature   = errors.New("webhook signature verification failed")
	ErrUnhandledEvent = errors.New("unhandled provider event type")
)

// Event is a provider webhook payload normalized for the reconciler.
type Event struct {
	ID        string
	Type      string
	AttemptID string
	Status    ExternalStatus
}

// signatureTolerance rejects replayed events with a stale timestamp.
const signatureTolerance = 5 * time.Minute

// VerifySignature checks the provider's signature header against the raw
// payload. The header carries a unix timestamp and an HMAC-SHA256 of
// "<timestamp>.<payload>" keyed with the webhook secret.
func VerifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	var ts string
	var sigs []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == "" || len(sigs) == 0 {
		return ErrBadSignature
	}

	epoch, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if math.Abs(now.Sub(time.Unix(epoch, 0)).Seconds()) > signatureTolerance.Seconds() {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, s := range sigs {
		if hmac.Equal([]byte(expected), []byte(s)) {
			return nil
		}
	}
	return ErrBadSignature
}

// ParseEvent decodes a verified payload into a normalized Event. Event types
// that do not affect payment status return ErrUnhandledEvent.
func ParseEvent(payload []byte) (*Event, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode provider event: %w", err)
	}
	if raw.Data.Object.ID == "" {
		return nil, errors.New("provider event has no attempt id")
	}

	status, ok := statusForEventType(raw.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnhandledEvent, raw.Type)
	}

	return &Event{
		ID:        raw.ID,
		Type:      raw.Type,
		AttemptID: raw.Data.Object.ID,
		Status:    status,
	}, nil
}

func statusForEventType(eventType string) (ExternalStatus, bool) {
	switch eventType {
	case "checkout.session.completed", "payment_intent.succeeded", "charge.succeeded":
		return StatusPaid, true
	case "checkout.session.expired", "payment_intent.payment_failed":
		return StatusFailed, true
	default:
		return "", false
	}
}
