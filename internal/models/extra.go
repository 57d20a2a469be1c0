package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Extra holds JSON members a client sent that have no typed field. They are written back
// unchanged after the typed fields, so a stored record still carries everything that was posted.
type Extra map[string]json.RawMessage

// decodeWithExtra decodes data into typed and returns the members whose names match none of
// known. Names are compared case-insensitively, as encoding/json does when filling typed.
func decodeWithExtra(data []byte, typed interface{}, known map[string]struct{}) (Extra, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	var extra Extra
	for name, raw := range members {
		if _, ok := known[strings.ToLower(name)]; ok {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[name] = raw
	}
	return extra, nil
}

// encodeWithExtra encodes typed and appends the extra members in name order.
func encodeWithExtra(typed interface{}, extra Extra) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(typed); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(extra) == 0 {
		return out, nil
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make([]byte, 0, len(out)+64*len(names))
	merged = append(merged, out[:len(out)-1]...)
	needComma := len(bytes.TrimSpace(out)) > 2
	for _, name := range names {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		if needComma {
			merged = append(merged, ',')
		}
		merged = append(merged, key...)
		merged = append(merged, ':')
		merged = append(merged, extra[name]...)
		needComma = true
	}
	return append(merged, '}'), nil
}

func knownKeys(names ...string) map[string]struct{} {
	keys := make(map[string]struct{}, len(names))
	for _, name := range names {
		keys[strings.ToLower(name)] = struct{}{}
	}
	return keys
}
