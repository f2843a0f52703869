package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DecodeJSON decodes a complete JSON document. Numbers are kept as
// json.Number so integer counters can be told apart from floats.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

// ObjectValue returns v as a JSON object.
func ObjectValue(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// ListValue returns v as a JSON array.
func ListValue(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// StringValue returns v as a string.
func StringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// IntValue returns v as an integer, or nil when v is absent or not an
// integer (floats such as 10.5 or 10.0 do not count).
func IntValue(v any) *int {
	switch n := v.(type) {
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return nil
		}
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return nil
		}
		return Int(i)
	case int:
		return Int(n)
	case int64:
		return Int(int(n))
	case int32:
		return Int(int(n))
	default:
		return nil
	}
}

// ScalarString renders a JSON scalar (string or number) as a string, or ""
// for anything else.
func ScalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// jsonKind names the JSON type of a decoded value for error messages.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64, int:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// pathParamPattern matches {name} placeholders in endpoint templates.
var pathParamPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ExpandEndpoint resolves the {name} placeholders of an endpoint template.
// Values are path-escaped. A placeholder without a value yields a
// *ConfigError naming the missing parameter.
func ExpandEndpoint(provider, template string, params map[string]string) (string, error) {
	var missing string
	out := pathParamPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok || value == "" {
			if missing == "" {
				missing = name
			}
			return match
		}
		return url.PathEscape(value)
	})
	if missing != "" {
		return "", &ConfigError{
			Provider: provider,
			Field:    "chat_endpoint",
			Message:  fmt.Sprintf("missing path parameter %q for endpoint %q", missing, template),
		}
	}
	return out, nil
}

// ErrorBody is the vendor-neutral decoding of a non-2xx response body.
type ErrorBody struct {
	// Details has Message, Raw and RequestID filled with fallbacks: the raw
	// body text when the body is not JSON, the top-level "message" string when
	// there is no error object.
	Details APIErrorDetails

	// Payload is the decoded top-level object, nil when the body is not one
	Payload map[string]any

	// Error is the decoded "error" object, nil when absent
	Error map[string]any
}

// DecodeErrorBody decodes the error envelope shared by the supported vendors.
// Adapters fill ErrorType and Code from Error.
func DecodeErrorBody(resp *HTTPResponse, requestID string) ErrorBody {
	text := resp.Text()
	out := ErrorBody{
		Details: APIErrorDetails{
			Message:   text,
			Raw:       text,
			RequestID: requestID,
		},
	}

	decoded, err := DecodeJSON(resp.Body)
	if err != nil {
		return out
	}
	out.Details.Raw = decoded

	payload, ok := ObjectValue(decoded)
	if !ok {
		return out
	}
	out.Payload = payload

	if errObj, ok := ObjectValue(payload["error"]); ok {
		out.Error = errObj
		if msg, ok := StringValue(errObj["message"]); ok && msg != "" {
			out.Details.Message = msg
		}
		return out
	}

	if msg, ok := StringValue(payload["message"]); ok {
		out.Details.Message = msg
	}
	return out
}
