package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/afmejia23/reviews-and-ratings/pkg/errors"
)

// upstreamErrorBody is the structured error shape some catalog API deployments
// return. Both the flat {code,message} and nested {error:{code,message}}
// layouts are accepted.
type upstreamErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from the
// catalog API and translates it into an AppError. The response body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	code := ""
	message := string(bodyBytes)

	var parsed upstreamErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil:
			code, message = parsed.Error.Code, parsed.Error.Message
		case parsed.Code != "" || parsed.Message != "":
			code, message = parsed.Code, parsed.Message
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(operation, message)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", operation, message))
	case resp.StatusCode >= 500:
		return apperrors.Upstream(operation, fmt.Errorf("status %d (%s): %s", resp.StatusCode, code, message))
	default:
		return apperrors.Upstream(operation, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message))
	}
}

// IsClientError reports whether the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
