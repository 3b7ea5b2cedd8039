package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransient covers network failures and 5xx answers. Callers may retry.
	KindTransient Kind = iota
	// KindAuthorizationLost is a 401. The client has already cleared the
	// session and navigated to login when the caller sees it.
	KindAuthorizationLost
	KindNotFound
	// KindRejected is any other 4xx, typically a validation failure.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindAuthorizationLost:
		return "authorization_lost"
	case KindNotFound:
		return "not_found"
	case KindRejected:
		return "rejected"
	default:
		return "transient"
	}
}

var (
	ErrAuthorizationLost = crdb.New("authorization lost")
	ErrNotFound          = crdb.New("not found")
	ErrRejected          = crdb.New("request rejected")
	ErrTransient         = crdb.New("service unavailable")
)

// Error is returned by every failed operation.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	// Detail is the server-supplied human-readable message, if any.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": http %d", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthorizationLost:
		return e.Kind == KindAuthorizationLost
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrTransient:
		return e.Kind == KindTransient
	}
	return false
}

// Detail returns the server detail carried by err, or "".
func Detail(err error) string {
	var apiErr *Error
	if crdb.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// DetailOr returns the server detail carried by err, or fallback.
func DetailOr(err error, fallback string) string {
	if detail := Detail(err); detail != "" {
		return detail
	}
	return fallback
}

func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthorizationLost
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindRejected
	default:
		return KindTransient
	}
}

// parseDetail understands {"detail": "msg"} and the validation form
// {"detail": [{"loc": [...], "msg": "..."}]}.
func parseDetail(body []byte) string {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ""
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			msg := strings.TrimSpace(item.Msg)
			if msg == "" {
				continue
			}
			if field := locField(item.Loc); field != "" {
				msg = field + ": " + msg
			}
			parts = append(parts, msg)
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(envelope.Detail))
}

func locField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	last := loc[len(loc)-1]
	if name, ok := last.(string); ok && name != "body" && name != "query" {
		return name
	}
	return ""
}
