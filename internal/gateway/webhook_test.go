package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	t.Run("Valid", func(t *testing.T) {
		err := VerifySignature(payload, sign(payload, testSecret, now), testSecret, now)
		assert.NoError(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		err := VerifySignature(payload, sign(payload, "other", now), testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		header := sign(payload, testSecret, now)
		err := VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		header := sign(payload, testSecret, now.Add(-10*time.Minute))
		err := VerifySignature(payload, header, testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("TimestampWithinTolerance", func(t *testing.T) {
		header := sign(payload, testSecret, now.Add(-4*time.Minute))
		err := VerifySignature(payload, header, testSecret, now)
		assert.NoError(t, err)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		err := VerifySignature(payload, "not-a-signature", testSecret, now)
		assert.ErrorIs(t, err, ErrBadSignature)
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("CompletedCheckout", func(t *testing.T) {
		payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"at_1"}}}`)
		ev, err := ParseEvent(payload)
		assert.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, "at_1", ev.AttemptID)
		assert.Equal(t, StatusPaid, ev.Status)
	})

	t.Run("ExpiredCheckout", func(t *testing.T) {
		payload := []byte(`{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"at_1"}}}`)
		ev, err := ParseEvent(payload)
		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, ev.Status)
	})

	t.Run("UnhandledType", func(t *testing.T) {
		payload := []byte(`{"id":"evt_3","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
		_, err := ParseEvent(payload)
		assert.ErrorIs(t, err, ErrUnhandledEvent)
	})

	t.Run("MissingAttemptID", func(t *testing.T) {
		payload := []byte(`{"id":"evt_4","type":"checkout.session.completed","data":{"object":{}}}`)
		_, err := ParseEvent(payload)
		assert.Error(t, err)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{`))
		assert.Error(t, err)
	})
}
