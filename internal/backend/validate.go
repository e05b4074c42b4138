package backend

import (
	"encoding/json"
	"fmt"

	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
)

// The upstream API has drifted between releases: some array endpoints return
// a bare list, others wrap it in an object. Object
// endpoints fail hard on missing keys, list endpoints fail open to empty.

// wrapperFields are object fields checked, in order, when a list endpoint
// returns an object instead of an array.
var wrapperFields = []string{"contextos", "resultados", "items", "data"}

// ValidateObject parses raw as a JSON object and checks every expected key
// is present. Returns ErrInvalidResponse when the payload does not parse or
// a key is absent.
func ValidateObject(raw []byte, expectedKeys ...string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrInvalidResponse, err)
	}
	for _, key := range expectedKeys {
		if _, ok := obj[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", domerrors.ErrInvalidResponse, key)
		}
	}
	return obj, nil
}

// ValidateList parses raw as a JSON array. An object carrying the list under
// a known wrapper field is unwrapped. Anything else logs a warning and
// returns an empty list; list endpoints never raise shape errors to callers.
func ValidateList(raw []byte, log *logger.Logger) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, field := range wrapperFields {
			inner, ok := obj[field]
			if !ok {
				continue
			}
			if err := json.Unmarshal(inner, &list); err == nil {
				return list
			}
		}
	}

	if log != nil {
		log.WithModule("backend").Warnf("expected list payload, got %d bytes of something else", len(raw))
	}
	return []json.RawMessage{}
}

// decodeList validates raw as a list and unmarshals each element into T,
// skipping elements that do not decode. Fail-open, mirroring ValidateList.
func decodeList[T any](raw []byte, log *logger.Logger) []T {
	elems := ValidateList(raw, log)
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			if log != nil {
				log.WithModule("backend").WithError(err).Warn("skipping malformed list element")
			}
			continue
		}
		out = append(out, v)
	}
	return out
}
