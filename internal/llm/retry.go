package llm

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
	"time"
)

const retryBaseDelay = 300 * time.Millisecond

type retrying struct {
	base  Completer
	label string
	delay time.Duration
}

// WithRetry wraps base so a transient failure is retried once after a short delay.
func WithRetry(base Completer, label string) Completer {
	if base == nil {
		return nil
	}
	return retrying{base: base, label: label, delay: retryBaseDelay}
}

func (r retrying) Complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := r.base.Complete(ctx, system, prompt)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}

	log.Printf("llm retry attempt=1 call=%s error=%s", r.label, sanitizeError(err))
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.base.Complete(ctx, system, prompt)
}

// ShouldRetry reports whether err looks transient.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") ||
		strings.Contains(msg, "http status 429") || strings.Contains(msg, "overloaded") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "openai") || strings.Contains(msg, "anthropic") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

func sanitizeError(err error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
