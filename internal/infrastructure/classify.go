package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/yourusername/trackpull-go/internal/domain"
)

// errorBody is the structured error shape the collaborator service returns.
// Detail is either a plain string or a list of field-level messages.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Msg string `json:"msg"`
}

// classifyResponse turns a non-2xx response into a ClassifiedError. A 422
// carrying structured validation detail becomes a rejection whose message is
// the concatenation of all field messages; any other error status decodes the
// body as text, then as JSON with a detail field, falling back to the raw
// text or a generic "Error <status>" string.
func classifyResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	text := strings.TrimSpace(string(raw))

	if resp.StatusCode == http.StatusUnprocessableEntity {
		if msg := decodeDetail(raw); msg != "" {
			return domain.NewRequestRejected(msg)
		}
		if text != "" {
			return domain.NewRequestRejected(text)
		}
		return domain.NewRequestRejected(fmt.Sprintf("Error %d", resp.StatusCode))
	}

	if msg := decodeDetail(raw); msg != "" {
		return domain.NewServerError(msg)
	}
	if text != "" {
		return domain.NewServerError(text)
	}
	return domain.NewServerError(fmt.Sprintf("Error %d", resp.StatusCode))
}

// decodeDetail extracts the detail message from a JSON error body. Returns ""
// when the body is not decodable at any step.
func decodeDetail(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(body.Detail, &single); err == nil {
		return single
	}

	var fields []fieldError
	if err := json.Unmarshal(body.Detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		return strings.Join(msgs, ", ")
	}

	return ""
}

// ClassifyTransport turns an error raised without a usable response into a
// ClassifiedError. Deadline expiry maps to the timeout kind, transport
// failures (name resolution, connectivity) to the network kind, and anything
// else is surfaced as unknown with the original message. Errors that are
// already classified pass through unchanged.
func ClassifyTransport(err error) error {
	if err == nil {
		return nil
	}

	var ce *domain.ClassifiedError
	if errors.As(err, &ce) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return domain.NewTimeoutError(err)
		}
		return domain.NewNetworkError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.NewTimeoutError(err)
		}
		return domain.NewNetworkError(err)
	}

	return domain.NewUnknownError(err)
}
