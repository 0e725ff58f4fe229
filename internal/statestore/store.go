// Package statestore holds per-session storefront state: cart snapshots,
// checkout progress, hand-off payloads and the most recent order. Values
// are JSON blobs under fixed key families; a missing or malformed entry
// always reads as absent, never as an error.
package statestore

import (
	"context"
	"time"
)

type Store interface {
	// Get unmarshals the value at key into dest. The boolean reports
	// whether a usable value was found; corrupt entries read as absent.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func CartKey(sessionID string) string        { return "cart:" + sessionID }
func CheckoutKey(sessionID string) string    { return "checkout:" + sessionID }
func SummaryKey(sessionID string) string     { return "summary:" + sessionID }
func RecentOrderKey(sessionID string) string { return "recent_order:" + sessionID }
func MirrorKey(sessionID string) string      { return "mirror:" + sessionID }
func OTPKey(email string) string             { return "otp:" + email }
