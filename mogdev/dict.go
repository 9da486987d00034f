package mogdev

import (
	"bytes"
	"strings"
)

// Dict is an insertion-ordered string mapping parsed from a dictionary
// response. Keys are unique per response; setting an existing key overwrites
// its value without changing its position. Values are kept verbatim — no
// numeric coercion.
type Dict struct {
	keys   []string
	values map[string]string
}

func newDict() *Dict {
	return &Dict{values: make(map[string]string)}
}

func (d *Dict) set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value for key and whether it is present.
func (d *Dict) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)

	return keys
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// String renders the dictionary in its comma-delimited wire form.
func (d *Dict) String() string {
	var sb strings.Builder
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(d.values[k])
	}

	return sb.String()
}

// parseDict parses a dictionary response: `name:value` entries separated by
// commas (new firmware) or newlines (legacy), optionally preceded by an "OK"
// marker.
//
// Each entry is split on its FIRST colon; values may therefore contain
// colons. Both sides are trimmed of surrounding whitespace. A response
// without any colon, or an entry without one, is a ProtocolError.
func parseDict(resp []byte) (*Dict, error) {
	body := resp
	if bytes.HasPrefix(body, []byte(okPrefix)) {
		body = bytes.TrimLeft(body[len(okPrefix):], " ,\t")
	}

	if !bytes.ContainsRune(body, ':') {
		return nil, &ProtocolError{Reason: "response is not a dictionary", Response: resp}
	}

	sep := []byte("\n")
	if bytes.ContainsRune(body, ',') {
		sep = []byte(",")
	}

	dict := newDict()

	for _, entry := range bytes.Split(body, sep) {
		name, value, ok := bytes.Cut(entry, []byte(":"))
		if !ok {
			return nil, &ProtocolError{Reason: "malformed dictionary entry", Response: entry}
		}

		dict.set(string(bytes.TrimSpace(name)), string(bytes.TrimSpace(value)))
	}

	return dict, nil
}
