package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"video-upscaler-backend/internal/models"
)

const (
	headerWebhookID        = "webhook-id"
	headerWebhookTimestamp = "webhook-timestamp"
	headerWebhookSignature = "webhook-signature"

	signatureTolerance = 5 * time.Minute
)

// WebhookVerifier checks Replicate webhook signatures. The signed content is
// "<webhook-id>.<webhook-timestamp>.<body>", HMAC-SHA256 keyed with the
// base64 part of a "whsec_" secret.
type WebhookVerifier struct {
	key []byte
	now func() time.Time
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return nil, err
	}
	return &WebhookVerifier{key: key, now: time.Now}, nil
}

func (v *WebhookVerifier) Verify(header http.Header, body []byte) error {
	id := header.Get(headerWebhookID)
	ts := header.Get(headerWebhookTimestamp)
	sigs := header.Get(headerWebhookSignature)
	if id == "" || ts == "" || sigs == "" {
		return &models.AuthError{Reason: "missing webhook signature headers"}
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return &models.AuthError{Reason: "invalid webhook timestamp"}
	}
	sent := time.Unix(unix, 0)
	if d := v.now().Sub(sent); d > signatureTolerance || d < -signatureTolerance {
		return &models.AuthError{Reason: "webhook timestamp outside tolerance"}
	}

	expected := v.Sign(id, ts, body)
	for _, candidate := range strings.Fields(sigs) {
		_, sig, ok := strings.Cut(candidate, ",")
		if !ok {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return &models.AuthError{Reason: "webhook signature mismatch"}
}

// Sign returns the base64 signature for one delivery.
func (v *WebhookVerifier) Sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
