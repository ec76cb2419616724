package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/busbooking/internal/domain"
)

type errorBody struct {
	Message any `json:"message"`
	Error   any `json:"error"`
	Errors  []struct {
		DefaultMessage any `json:"defaultMessage"`
		Message        any `json:"message"`
	} `json:"errors"`
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

// errorFromResponse turns a non-2xx response into a *domain.Error, pulling a
// human readable message out of the body where the API provides one.
func errorFromResponse(status int, body []byte) *domain.Error {
	statusText := http.StatusText(status)

	switch status {
	case http.StatusUnauthorized:
		return &domain.Error{Kind: domain.KindAuthentication, Status: status, Message: "Authentication required"}
	case http.StatusForbidden:
		msg := "403 Forbidden"
		if json.Valid(body) {
			var eb errorBody
			_ = json.Unmarshal(body, &eb)
			if m := text(eb.Message); m != "" {
				msg = m
			}
		} else if statusText != "" {
			msg += fmt.Sprintf(" (%s)", statusText)
		}
		return &domain.Error{Kind: domain.KindForbidden, Status: status, Message: msg}
	}

	kind := domain.KindHTTP
	switch status {
	case http.StatusNotFound:
		kind = domain.KindNotFound
	case http.StatusConflict:
		kind = domain.KindConflict
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	message := text(eb.Message)
	msg := message
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}

	switch {
	case eb.Errors != nil:
		parts := make([]string, 0, len(eb.Errors))
		for _, fe := range eb.Errors {
			m := text(fe.DefaultMessage)
			if m == "" {
				m = text(fe.Message)
			}
			if m != "" {
				parts = append(parts, m)
			}
		}
		if len(parts) > 0 {
			msg += ": " + strings.Join(parts, ", ")
		}
		kind = domain.KindValidation
	case text(eb.Error) != "":
		if message == "" {
			msg = text(eb.Error)
		}
	case message == "" && statusText != "":
		msg += fmt.Sprintf(" (%s)", statusText)
	}

	return &domain.Error{Kind: kind, Status: status, Message: msg}
}
