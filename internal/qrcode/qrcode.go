// Package qrcode generates visitor IDs and the opaque access tokens that a
// gate checkpoint scans to correlate a visitor with a visit date and unit.
//
// Tokens are reversible and unsigned. They carry data for a same-day check,
// they are not credentials.
package qrcode

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken is returned when a token cannot be decoded into a payload.
var ErrInvalidToken = errors.New("invalid access token")

const (
	idPrefix     = "VIS"
	randomLength = 8
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"

	// timestampLayout matches an ISO-8601 UTC timestamp with milliseconds.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Payload is the structured content of an access token.
type Payload struct {
	VisitorID string `json:"visitorId"`
	VisitDate string `json:"visitDate"`
	Unit      string `json:"unit"`
	Timestamp string `json:"timestamp"`
	AccessKey string `json:"accessKey"`
}

// GenerateVisitorID returns a new visitor ID built from a fixed prefix, the
// current time in base 36 and a random base 36 suffix, upper-cased.
// Uniqueness is probabilistic; callers that need a guarantee must check
// against the IDs they already hold.
func GenerateVisitorID() string {
	return generateVisitorID(time.Now())
}

func generateVisitorID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper(idPrefix + ts + randomString(randomLength))
}

func randomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}

// Encode builds an access token for a visitor using the current time.
func Encode(visitorID, visitDate, unit string) string {
	return EncodeAt(visitorID, visitDate, unit, time.Now())
}

// EncodeAt builds an access token for a visitor generated at t.
func EncodeAt(visitorID, visitDate, unit string, t time.Time) string {
	p := Payload{
		VisitorID: visitorID,
		VisitDate: visitDate,
		Unit:      unit,
		Timestamp: t.UTC().Format(timestampLayout),
		AccessKey: accessKey(visitorID, t),
	}

	// Marshaling a struct of strings cannot fail.
	data, _ := json.Marshal(p)
	return base64.StdEncoding.EncodeToString(data)
}

func accessKey(visitorID string, t time.Time) string {
	raw := fmt.Sprintf("%s-%d", visitorID, t.UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Decode reverses Encode. Malformed input yields ErrInvalidToken.
func Decode(token string) (*Payload, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding base64: %v", ErrInvalidToken, err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parsing payload: %v", ErrInvalidToken, err)
	}
	if p.VisitorID == "" {
		return nil, fmt.Errorf("%w: missing visitor id", ErrInvalidToken)
	}

	return &p, nil
}

// Validate reports whether token decodes and was issued for expectedDate.
func Validate(token, expectedDate string) bool {
	p, err := Decode(token)
	if err != nil {
		return false
	}
	return p.VisitDate == expectedDate
}

// GeneratedAt returns the time the token payload was created.
func (p *Payload) GeneratedAt() (time.Time, error) {
	t, err := time.Parse(timestampLayout, p.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing token timestamp: %w", err)
	}
	return t, nil
}
