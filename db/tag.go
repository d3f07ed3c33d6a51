package db

import (
	"fmt"
	"strings"

	"github.com/t7a/gitbase/kvlm"
)

// Tag is an annotated tag: a named, signed-off pointer at another
// object.
type Tag struct {
	Header *kvlm.Map
}

// NewTag assembles an annotated tag pointing at target, which is of
// kind targetKind.
func NewTag(target string, targetKind Kind, name string, tagger Signature, message string) *Tag {
	m := kvlm.New()
	m.Set("object", []byte(target))
	m.Set("type", []byte(targetKind.String()))
	m.Set("tag", []byte(name))
	m.Set("tagger", []byte(tagger.String()))
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	m.Message = []byte(message)
	return &Tag{Header: m}
}

func (tag *Tag) Kind() Kind {
	return KindTag
}

func (tag *Tag) Serialize() ([]byte, error) {
	if tag.Header == nil || !tag.Header.Has("object") {
		return nil, fmt.Errorf("tag has no object")
	}
	return tag.Header.Serialize(), nil
}

func (tag *Tag) Deserialize(payload []byte) (err error) {
	m, err := kvlm.Parse(payload)
	if err != nil {
		return
	}
	if !m.Has("object") {
		return &kvlm.MalformedHeaderError{Reason: "tag has no object"}
	}
	tag.Header = m
	return
}

// Object returns the digest the tag points at.
func (tag *Tag) Object() string {
	return string(tag.Header.Get("object"))
}

// TargetKind returns the declared kind of the tagged object.
func (tag *Tag) TargetKind() (Kind, error) {
	return ParseKind(string(tag.Header.Get("type")))
}

// Name returns the tag name.
func (tag *Tag) Name() string {
	return string(tag.Header.Get("tag"))
}

// Tagger returns the raw tagger header.
func (tag *Tag) Tagger() string {
	return string(tag.Header.Get("tagger"))
}

// Message returns the tag message verbatim.
func (tag *Tag) Message() string {
	return string(tag.Header.Message)
}
