package db

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies how an object's payload is interpreted.
type Kind int

const (
	KindBlob Kind = iota + 1
	KindTree
	KindCommit
	KindTag
)

var kindTokens = map[Kind]string{
	KindBlob:   "blob",
	KindTree:   "tree",
	KindCommit: "commit",
	KindTag:    "tag",
}

// String returns the kind token used in frames.
func (k Kind) String() string {
	if tok, ok := kindTokens[k]; ok {
		return tok
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind token to its Kind.
func ParseKind(token string) (Kind, error) {
	for k, tok := range kindTokens {
		if tok == token {
			return k, nil
		}
	}
	return 0, &UnknownKindError{Kind: token}
}

// Object is the payload of a stored object.  Serialize and Deserialize
// convert between the in-memory form and the payload bytes, without
// the frame header.
type Object interface {
	Kind() Kind
	Serialize() ([]byte, error)
	Deserialize(payload []byte) error
}

// codecs is the dispatch table from kind to payload codec.  Adding a
// kind means adding an entry here.
var codecs = map[Kind]func() Object{
	KindBlob:   func() Object { return &Blob{} },
	KindTree:   func() Object { return &Tree{} },
	KindCommit: func() Object { return &Commit{} },
	KindTag:    func() Object { return &Tag{} },
}

// NewObject returns an empty object of kind.
func NewObject(kind Kind) (obj Object, err error) {
	mk, ok := codecs[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind.String()}
	}
	return mk(), nil
}

// Decode builds an object of kind from its payload.
func Decode(kind Kind, payload []byte) (obj Object, err error) {
	obj, err = NewObject(kind)
	if err != nil {
		return
	}
	err = obj.Deserialize(payload)
	if err != nil {
		return nil, err
	}
	return
}

// Frame prefixes payload with "<kind> <len>\x00".
func Frame(kind Kind, payload []byte) []byte {
	header := kind.String() + " " + strconv.Itoa(len(payload)) + "\x00"
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header...)
	return append(buf, payload...)
}

// Unframe splits a frame into kind and payload, checking the declared
// length against the payload.  Errors carry digest for reporting.
func Unframe(digest string, buf []byte) (kind Kind, payload []byte, err error) {
	spc := bytes.IndexByte(buf, ' ')
	if spc < 0 {
		return 0, nil, &MalformedObjectError{Digest: digest, Reason: "no space after kind"}
	}
	kind, err = ParseKind(string(buf[:spc]))
	if err != nil {
		return 0, nil, err
	}
	nul := bytes.IndexByte(buf[spc:], 0)
	if nul < 0 {
		return 0, nil, &MalformedObjectError{Digest: digest, Reason: "no NUL after length"}
	}
	nul += spc
	size, err := strconv.Atoi(string(buf[spc+1 : nul]))
	if err != nil || size < 0 {
		return 0, nil, &MalformedObjectError{Digest: digest, Reason: fmt.Sprintf("bad length %q", buf[spc+1:nul])}
	}
	payload = buf[nul+1:]
	if size != len(payload) {
		return 0, nil, &MalformedObjectError{
			Digest: digest,
			Reason: fmt.Sprintf("length %d declared, %d present", size, len(payload)),
		}
	}
	return kind, payload, nil
}

// Encode serializes and frames obj and returns its digest under algo
// along with the frame.
func Encode(algo string, obj Object) (digest string, frame []byte, err error) {
	payload, err := obj.Serialize()
	if err != nil {
		return
	}
	frame = Frame(obj.Kind(), payload)
	binhash, err := Hash(algo, frame)
	if err != nil {
		return
	}
	return bin2hex(binhash), frame, nil
}

// HashObject returns the digest obj would be stored under, without
// storing it.
func HashObject(algo string, obj Object) (digest string, err error) {
	digest, _, err = Encode(algo, obj)
	return
}
