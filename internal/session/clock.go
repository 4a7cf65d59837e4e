package session

import (
	"net/http"
	"time"
)

// EstimateOffset derives the server-minus-local clock offset from a response
// Date header. It is a best-effort estimate: no round-trip latency correction
// is applied, so the result is accurate to about one network round trip.
// Returns false when the header is absent or unparseable, in which case the
// caller keeps its previous offset.
func EstimateOffset(dateHeader string, localNow time.Time) (time.Duration, bool) {
	if dateHeader == "" {
		return 0, false
	}
	serverTime, err := http.ParseTime(dateHeader)
	if err != nil {
		return 0, false
	}
	return serverTime.Sub(localNow), true
}

// ParseDeadline parses the server's RFC 3339 question expiry timestamp.
func ParseDeadline(isoUTC string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, isoUTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
