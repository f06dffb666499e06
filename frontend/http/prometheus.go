package http

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chihaya/benc/bencode"
)

func init() {
	prometheus.MustRegister(promResponseDurationMilliseconds)
}

var promResponseDurationMilliseconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "benc_http_response_duration_milliseconds",
		Help:    "The duration of time it takes to receive and write a response to an API request",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
	},
	[]string{"action", "error"},
)

// errorLabel maps err onto a small, fixed set of label values.
func errorLabel(err error) string {
	if err == nil {
		return ""
	}

	var perr *bencode.Error
	var cerr ClientError
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return "body too large"
	case errors.As(err, &perr):
		return perr.Kind.String()
	case errors.As(err, &cerr):
		return "client error"
	default:
		return "internal error"
	}
}

// recordResponseDuration records the duration of time to respond to a Request
// in milliseconds.
func recordResponseDuration(action string, err error, duration time.Duration) {
	promResponseDurationMilliseconds.
		WithLabelValues(action, errorLabel(err)).
		Observe(float64(duration.Nanoseconds()) / float64(time.Millisecond))
}
