package generate

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/kotomap/kotomap/pkg/errors"
)

// FocusNode is the wire form of the node being expanded.
type FocusNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Depth int    `json:"depth"`
}

// Request carries everything a backend needs to produce one expansion:
// the focus node and the full set of element IDs already claimed by the
// graph. Element IDs cover edges as well as nodes, so backends can avoid
// proposing colliding identifiers (colliding ones are repaired downstream
// regardless).
type Request struct {
	Focus              FocusNode `json:"focusNode"`
	ExistingElementIDs []string  `json:"existingElementIds"`
}

// Generator produces raw expansion payload bytes for a request. The bytes
// are expected to be a JSON object but nothing about their content is
// trusted; sanitization happens downstream.
type Generator interface {
	Expand(ctx context.Context, req Request) ([]byte, error)
}

// DecodePayload decodes raw generator output into the dynamic payload shape
// the sanitizer consumes. Markdown code fences around the JSON body are
// tolerated. Returns an INVALID_PAYLOAD error when the bytes are not a JSON
// object; that is a transport-class failure and the expansion must not
// change the graph.
func DecodePayload(data []byte) (map[string]any, error) {
	body := stripFences(strings.TrimSpace(string(data)))
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPayload, err, "generator response is not a JSON object")
	}
	return payload, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, from a trimmed response body.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
