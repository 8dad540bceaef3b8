package netutil

import (
	"errors"
	"net"
	"net/url"
)

// ShouldRetry reports whether err looks like a transient network failure
// that a repeated call to the Telegram API could survive. Timeouts and
// dial errors qualify; anything application-level does not.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && transient(netErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
		if nested, ok := opErr.Err.(net.Error); ok && transient(nested) {
			return true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return ShouldRetry(urlErr.Err)
		}
	}

	return false
}

func transient(err net.Error) bool {
	return err.Timeout() || err.Temporary()
}
