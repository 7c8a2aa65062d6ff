// Package checkin decodes scanned check-in tokens and decides whether a
// reservation may be checked in at a given instant.
package checkin

import (
	"fmt"
	"net/url"
	"strings"
)

const paramReservationID = "reservationId"

// Codec reads and writes tokens of the form
// "<scheme>:<action>?reservationId=<url-encoded id>".
type Codec struct {
	Scheme string
	Action string
}

func NewCodec(scheme, action string) Codec {
	return Codec{Scheme: scheme, Action: action}
}

func (c Codec) prefix() string {
	return c.Scheme + ":" + c.Action + "?"
}

func (c Codec) BuildToken(reservationID string) string {
	return c.prefix() + paramReservationID + "=" + url.QueryEscape(reservationID)
}

// ParseToken returns the reservation id carried by token. Other query
// parameters are ignored, including ones that are not valid query syntax.
func (c Codec) ParseToken(token string) (string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(token), c.prefix())
	if !ok {
		return "", &Error{Reason: ReasonMalformedToken, Err: fmt.Errorf("token does not start with %q", c.prefix())}
	}

	id, err := queryParam(rest, paramReservationID)
	if err != nil {
		return "", &Error{Reason: ReasonMalformedToken, Err: err}
	}
	if id == "" {
		return "", &Error{Reason: ReasonMalformedToken, Err: fmt.Errorf("missing %s parameter", paramReservationID)}
	}
	return id, nil
}

// queryParam returns the first value of name in query. Only "&" separates
// pairs, so a ";" stays part of a value. url.ParseQuery is not used because
// it rejects the whole pair on a stray ";" or a bad escape elsewhere.
func queryParam(query, name string) (string, error) {
	for _, pair := range strings.Split(query, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key != name {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return "", fmt.Errorf("invalid %s value: %w", name, err)
		}
		return value, nil
	}
	return "", nil
}
