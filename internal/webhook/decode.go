package webhook

import "strings"

// Kind tags the three response families the automation backend produces.
type Kind int

const (
	// KindSuccess carries a recognized success marker (status:"success",
	// success:true, or a code field).
	KindSuccess Kind = iota
	// KindFailure carries a recognized error shape.
	KindFailure
	// KindUnrecognized is anything else; callers must decide what to do
	// with the raw value instead of probing ad hoc fields.
	KindUnrecognized
)

// Outcome is the tagged-union decode of a relay result. It replaces the
// original ad hoc field probing with a single decode point at the relay
// boundary.
type Outcome struct {
	Kind    Kind
	Status  string
	Code    string
	Message string
	// Fields is the unwrapped top-level object, when there was one.
	Fields map[string]any
	// Data is the optional server patch (resData.data), with placeholder
	// values already filtered out.
	Data map[string]any
	// Raw is the unwrapped body as received.
	Raw any
}

// Decode classifies a relay result. Single-element (or larger) arrays are
// unwrapped to their first element first, matching how every caller of the
// automation backend treats array-shaped responses.
func Decode(res Result) Outcome {
	raw := Unwrap(res.Body)
	out := Outcome{Kind: KindUnrecognized, Raw: raw}

	m, ok := raw.(map[string]any)
	if !ok {
		if !res.Success && res.Body == nil {
			out.Kind = KindFailure
			out.Message = res.Message
			if out.Message == "" {
				out.Message = res.Error
			}
		}
		return out
	}
	out.Fields = m
	out.Status, _ = m["status"].(string)
	out.Code, _ = m["code"].(string)
	out.Message, _ = m["message"].(string)

	if d, ok := m["data"].(map[string]any); ok {
		out.Data = FilterPlaceholders(d)
	}

	switch {
	case out.Status == "success", m["success"] == true, out.Code != "":
		out.Kind = KindSuccess
	case !res.Success, m["success"] == false, m["error"] != nil:
		out.Kind = KindFailure
	}
	return out
}

// Unwrap returns the first element of an array-shaped body, or the body
// itself. The backend wraps single objects in one-element arrays at random.
func Unwrap(body any) any {
	if arr, ok := body.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return body
}

// FilterPlaceholders drops string values still containing unexpanded
// template markers ("{{ $json... }}") from a server data patch.
func FilterPlaceholders(data map[string]any) map[string]any {
	cleaned := make(map[string]any, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok && strings.Contains(s, "{{") {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
