/*

Package kvlm parses and serializes the key-value-list-with-message
format used by commit and tag payloads:

	tree 29ff16c9c14e2652b22f8b78bb08a5a07930c147
	parent 206941306e8a8af65b66eaaaea388a7ae24d49a0
	author A U Thor <author@example.com> 1527025023 +0200
	committer A U Thor <author@example.com> 1527025044 +0200
	gpgsig -----BEGIN PGP SIGNATURE-----
	 iQIzBAABCAAdFiEExwXquOM8bWb4Q2zVGxM2FxoLkGQFAlsEjZQACgkQGxM2FxoL
	 -----END PGP SIGNATURE-----

	Create first draft

A value continues onto the next physical line when that line starts
with a single space; the space is dropped and the newline is kept as
part of the value.  Keys may repeat, in which case their values
accumulate in order.  Everything after the first blank line is the
message, kept verbatim.

*/

package kvlm

import (
	"bytes"
	"fmt"
)

// MalformedHeaderError is returned when a header block cannot be
// parsed.  Offset is the byte offset of the offending line.
type MalformedHeaderError struct {
	Offset int
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header at offset %d: %s", e.Offset, e.Reason)
}

// Map is an ordered multimap of header fields plus a trailing message.
// Keys keep first-seen order.  The zero value is an empty map.
type Map struct {
	keys    []string
	values  map[string][][]byte
	Message []byte
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string][][]byte)}
}

// Keys returns the header keys in first-seen order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the first value stored under key, or nil.
func (m *Map) Get(key string) []byte {
	vals := m.values[key]
	if len(vals) == 0 {
		return nil
	}
	return vals[0]
}

// GetAll returns every value stored under key, in order.
func (m *Map) GetAll(key string) [][]byte {
	return m.values[key]
}

// IsList reports whether key has been seen more than once.
func (m *Map) IsList(key string) bool {
	return len(m.values[key]) > 1
}

// Add appends val to key, creating the key at the end of the order if
// it is new.
func (m *Map) Add(key string, val []byte) {
	if m.values == nil {
		m.values = make(map[string][][]byte)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], val)
}

// Set replaces all values of key with val.  A new key goes to the end
// of the order; an existing key keeps its position.
func (m *Map) Set(key string, val []byte) {
	if m.values == nil {
		m.values = make(map[string][][]byte)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = [][]byte{val}
}

// Del removes key and its values.
func (m *Map) Del(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Parse decodes raw into a Map.  The header block must be terminated
// by a blank line; the message may be empty.
func Parse(raw []byte) (m *Map, err error) {
	m = New()
	pos := 0
	for {
		if pos >= len(raw) {
			return nil, &MalformedHeaderError{Offset: pos, Reason: "missing blank line before message"}
		}

		// blank line: the rest is the message
		if raw[pos] == '\n' {
			m.Message = append([]byte{}, raw[pos+1:]...)
			return m, nil
		}

		spc := bytes.IndexByte(raw[pos:], ' ')
		nl := bytes.IndexByte(raw[pos:], '\n')
		if spc < 0 || (nl >= 0 && nl < spc) {
			return nil, &MalformedHeaderError{Offset: pos, Reason: "header line has no value"}
		}
		if spc == 0 {
			return nil, &MalformedHeaderError{Offset: pos, Reason: "empty key"}
		}
		key := string(raw[pos : pos+spc])

		// find the newline that is not followed by a continuation space
		end := pos + spc
		for {
			i := bytes.IndexByte(raw[end+1:], '\n')
			if i < 0 {
				return nil, &MalformedHeaderError{Offset: pos, Reason: fmt.Sprintf("unterminated value for %q", key)}
			}
			end = end + 1 + i
			if end+1 >= len(raw) || raw[end+1] != ' ' {
				break
			}
		}

		val := bytes.ReplaceAll(raw[pos+spc+1:end], []byte("\n "), []byte("\n"))
		m.Add(key, val)
		pos = end + 1
	}
}

// Serialize encodes m.  For any m produced by Parse, Serialize returns
// the bytes Parse was given.
func (m *Map) Serialize() []byte {
	var buf bytes.Buffer
	for _, key := range m.keys {
		for _, val := range m.values[key] {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.Write(bytes.ReplaceAll(val, []byte("\n"), []byte("\n ")))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.Write(m.Message)
	return buf.Bytes()
}

// Equal reports whether m and other hold the same keys in the same
// order with the same values and message.
func (m *Map) Equal(other *Map) bool {
	if len(m.keys) != len(other.keys) || !bytes.Equal(m.Message, other.Message) {
		return false
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		a, b := m.values[key], other.values[key]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !bytes.Equal(a[j], b[j]) {
				return false
			}
		}
	}
	return true
}
