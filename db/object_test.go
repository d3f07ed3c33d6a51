package db

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrame(t *testing.T) {
	frame := Frame(KindBlob, mkbuf("hello\n"))
	tassert(t, string(frame) == "blob 6\x00hello\n", "frame %q", frame)

	kind, payload, err := Unframe("x", frame)
	tassert(t, err == nil, "Unframe: %v", err)
	tassert(t, kind == KindBlob, "kind %s", kind)
	tassert(t, string(payload) == "hello\n", "payload %q", payload)

	kind, payload, err = Unframe("x", Frame(KindTree, nil))
	tassert(t, err == nil, "Unframe: %v", err)
	tassert(t, kind == KindTree && len(payload) == 0, "kind %s payload %q", kind, payload)
}

func TestUnframeErrors(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		malformed bool
	}{
		{"short payload", "blob 7\x00hello\n", true},
		{"long payload", "blob 5\x00hello\n", true},
		{"no space", "blob", true},
		{"no nul", "blob 6hello\n", true},
		{"bad length", "blob six\x00hello\n", true},
		{"negative length", "blob -1\x00", true},
		{"unknown kind", "blub 6\x00hello\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unframe("abcd", mkbuf(tt.frame))
			var me *MalformedObjectError
			var ue *UnknownKindError
			if tt.malformed {
				tassert(t, errors.As(err, &me), "expected MalformedObjectError, got %v", err)
				tassert(t, me.Digest == "abcd", "digest %q", me.Digest)
			} else {
				tassert(t, errors.As(err, &ue), "expected UnknownKindError, got %v", err)
				tassert(t, ue.Kind == "blub", "kind %q", ue.Kind)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	for _, tok := range []string{"blob", "tree", "commit", "tag"} {
		k, err := ParseKind(tok)
		tassert(t, err == nil, "ParseKind(%q): %v", tok, err)
		tassert(t, k.String() == tok, "round trip %q -> %s", tok, k)
		obj, err := NewObject(k)
		tassert(t, err == nil, "NewObject(%s): %v", k, err)
		tassert(t, obj.Kind() == k, "NewObject(%s) gave %s", k, obj.Kind())
	}
	_, err := ParseKind("branch")
	var ue *UnknownKindError
	tassert(t, errors.As(err, &ue), "expected UnknownKindError, got %v", err)
	_, err = NewObject(Kind(42))
	tassert(t, errors.As(err, &ue), "expected UnknownKindError, got %v", err)
}

func TestHashObject(t *testing.T) {
	blob := &Blob{Data: mkbuf("hello\n")}
	d1, err := HashObject("sha1", blob)
	tassert(t, err == nil, "HashObject: %v", err)
	tassert(t, d1 == helloBlob, "expected %s, got %s", helloBlob, d1)

	d2, err := HashObject("sha1", &Blob{Data: mkbuf("hello\n")})
	tassert(t, err == nil, "HashObject: %v", err)
	tassert(t, d1 == d2, "not deterministic: %s != %s", d1, d2)

	d3, err := HashObject("sha1", &Blob{Data: mkbuf("hello!")})
	tassert(t, err == nil, "HashObject: %v", err)
	tassert(t, d1 != d3, "one-byte change kept digest %s", d1)

	// same payload, different kind
	d4, err := HashObject("sha1", &Tree{Data: mkbuf("hello\n")})
	tassert(t, err == nil, "HashObject: %v", err)
	tassert(t, d1 != d4, "kind not part of digest")

	d5, err := HashObject("sha256", blob)
	tassert(t, err == nil, "HashObject: %v", err)
	expect := "2cf8d83d9ee29543b34a87727421fdecb7e3f3a183d337639025de576db9ebb4"
	tassert(t, d5 == expect, "expected %s, got %s", expect, d5)

	d6, err := HashObject("sha1", &Tree{})
	tassert(t, err == nil, "HashObject: %v", err)
	tassert(t, d6 == emptyTree, "expected %s, got %s", emptyTree, d6)
}

func TestDecodeCommit(t *testing.T) {
	payload := "tree d1\nparent d2\nauthor A <a@x> 0 +0000\ncommitter A <a@x> 0 +0000\n\nInitial commit\n"
	obj, err := Decode(KindCommit, mkbuf(payload))
	tassert(t, err == nil, "Decode: %v", err)
	c, ok := obj.(*Commit)
	tassert(t, ok, "got %T", obj)
	tassert(t, c.Tree() == "d1", "tree %q", c.Tree())
	parents := c.Parents()
	tassert(t, len(parents) == 1 && parents[0] == "d2", "parents %v", parents)
	tassert(t, c.Message() == "Initial commit\n", "message %q", c.Message())
	tassert(t, c.Author() == "A <a@x> 0 +0000", "author %q", c.Author())

	out, err := c.Serialize()
	tassert(t, err == nil, "Serialize: %v", err)
	tassert(t, bytes.Equal(out, mkbuf(payload)), "round trip %q", out)

	_, err = Decode(KindCommit, mkbuf("parent d2\n\nno tree\n"))
	tassert(t, err != nil, "commit without tree accepted")
}

func TestDecodeTag(t *testing.T) {
	payload := "object " + emptyTree + "\ntype tree\ntag v1\ntagger A <a@x> 0 +0000\n\nfirst\n"
	obj, err := Decode(KindTag, mkbuf(payload))
	tassert(t, err == nil, "Decode: %v", err)
	tag, ok := obj.(*Tag)
	tassert(t, ok, "got %T", obj)
	tassert(t, tag.Object() == emptyTree, "object %q", tag.Object())
	k, err := tag.TargetKind()
	tassert(t, err == nil && k == KindTree, "target kind %s %v", k, err)
	tassert(t, tag.Name() == "v1", "name %q", tag.Name())
	tassert(t, tag.Message() == "first\n", "message %q", tag.Message())

	built := NewTag(emptyTree, KindTree, "v1", testSig(0), "first")
	out, err := built.Serialize()
	tassert(t, err == nil, "Serialize: %v", err)
	tassert(t, string(out) == payload, "built tag %q", out)
}
