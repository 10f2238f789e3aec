package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"gymhub/internal/transport/http/api"
)

// ResponseCache is the storage behind Idempotency; the Redis cache satisfies it.
type ResponseCache interface {
	Enabled() bool
	Read(ctx context.Context, key string, out any) bool
	Write(ctx context.Context, key string, val any)
}

type storedResponse struct {
	RequestHash string `json:"requestHash"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type bufferedRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedRecorder) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferedRecorder) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

// Idempotency replays the stored response of a POST carrying the same Idempotency-Key
// and body for the same caller. A reused key with a different body is refused with 409.
// Server errors are not stored, so they can be retried.
func Idempotency(store ResponseCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" || r.Method != http.MethodPost || store == nil || !store.Enabled() {
				next.ServeHTTP(w, r)
				return
			}
			requestID := GetRequestID(r.Context())

			raw, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "validation_error", "request body could not be read", requestID)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			hash := RequestHash(raw)
			cacheKey := actorOrIPKey(r) + ":" + r.URL.Path + ":" + key

			var stored storedResponse
			if store.Read(r.Context(), cacheKey, &stored) {
				if stored.RequestHash != hash {
					api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", requestID)
					return
				}
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			recorder := &bufferedRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			if recorder.status >= 500 {
				return
			}
			store.Write(r.Context(), cacheKey, storedResponse{
				RequestHash: hash,
				Status:      recorder.status,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
		})
	}
}
