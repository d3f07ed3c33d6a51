package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/t7a/gitbase/kvlm"
)

// Signature is an identity plus timestamp, as found in author,
// committer and tagger headers.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String formats sig as "Name <email> <unix seconds> <+hhmm>".
func (sig Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", sig.Name, sig.Email, sig.When.Unix(), sig.When.Format("-0700"))
}

// ParseSignature parses the format produced by Signature.String.
func ParseSignature(s string) (sig Signature, err error) {
	lt := strings.LastIndexByte(s, '<')
	gt := strings.LastIndexByte(s, '>')
	if lt < 0 || gt < lt {
		return sig, fmt.Errorf("malformed signature: %q", s)
	}
	sig.Name = strings.TrimSpace(s[:lt])
	sig.Email = s[lt+1 : gt]
	sig.When, err = ParseDate(strings.TrimSpace(s[gt+1:]))
	if err != nil {
		return sig, fmt.Errorf("malformed signature %q: %w", s, err)
	}
	return
}

// ParseDate parses "<unix seconds> <+hhmm>".  A bare unix time is
// taken as UTC.
func ParseDate(s string) (when time.Time, err error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return when, fmt.Errorf("malformed date: %q", s)
	}
	secs, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return when, fmt.Errorf("malformed date: %q", s)
	}
	loc := time.UTC
	if len(fields) == 2 {
		tz, err := time.Parse("-0700", fields[1])
		if err != nil {
			return when, fmt.Errorf("malformed timezone: %q", fields[1])
		}
		_, offset := tz.Zone()
		loc = time.FixedZone("", offset)
	}
	return time.Unix(secs, 0).In(loc), nil
}

// Commit is a snapshot plus lineage.  Recognized headers are tree,
// parent, author and committer; others are kept in order.
type Commit struct {
	Header *kvlm.Map
}

// NewCommit assembles a commit in git's header order.  A newline is
// appended to message if it lacks one.
func NewCommit(tree string, parents []string, author, committer Signature, message string) *Commit {
	m := kvlm.New()
	m.Set("tree", []byte(tree))
	for _, p := range parents {
		m.Add("parent", []byte(p))
	}
	m.Set("author", []byte(author.String()))
	m.Set("committer", []byte(committer.String()))
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	m.Message = []byte(message)
	return &Commit{Header: m}
}

func (c *Commit) Kind() Kind {
	return KindCommit
}

func (c *Commit) Serialize() ([]byte, error) {
	if c.Header == nil || !c.Header.Has("tree") {
		return nil, fmt.Errorf("commit has no tree")
	}
	return c.Header.Serialize(), nil
}

func (c *Commit) Deserialize(payload []byte) (err error) {
	m, err := kvlm.Parse(payload)
	if err != nil {
		return
	}
	if !m.Has("tree") {
		return &kvlm.MalformedHeaderError{Reason: "commit has no tree"}
	}
	c.Header = m
	return
}

// Tree returns the digest of the commit's root tree.
func (c *Commit) Tree() string {
	return string(c.Header.Get("tree"))
}

// Parents returns the parent digests in header order.  A root commit
// has none.
func (c *Commit) Parents() (parents []string) {
	for _, p := range c.Header.GetAll("parent") {
		parents = append(parents, string(p))
	}
	return
}

// Author returns the raw author header.
func (c *Commit) Author() string {
	return string(c.Header.Get("author"))
}

// Committer returns the raw committer header.
func (c *Commit) Committer() string {
	return string(c.Header.Get("committer"))
}

// Message returns the commit message verbatim.
func (c *Commit) Message() string {
	return string(c.Header.Message)
}

// Subject returns the first line of the message.
func (c *Commit) Subject() string {
	msg := c.Message()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
