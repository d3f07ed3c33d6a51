package db

import (
	"strings"

	"github.com/pkg/errors"
)

// MinPrefix is the shortest digest prefix Resolve will expand.
const MinPrefix = 4

// refRules are the places a short name is looked up, in order.
var refRules = []string{
	"%s",
	"refs/%s",
	"refs/tags/%s",
	"refs/heads/%s",
	"refs/remotes/%s",
}

// Resolve turns name into a digest.  name may be HEAD or any other ref
// path under the gitdir, a short ref name (tags first, then heads, then
// remotes), a full digest, or a digest prefix of at least MinPrefix
// characters.  The first matching ref wins among refs; if that ref and
// the digest expansion disagree, or a prefix matches several objects,
// Resolve fails with *AmbiguousNameError.
//
// If kind is non-zero the result is peeled until it is of that kind:
// annotated tags are followed to their object, and commits give their
// tree when a tree is wanted.
func (db *Db) Resolve(name string, kind Kind) (digest string, err error) {
	candidates, err := db.candidates(name)
	if err != nil {
		return
	}
	switch len(candidates) {
	case 0:
		return "", &NameNotFoundError{Name: name}
	case 1:
		digest = candidates[0]
	default:
		return "", &AmbiguousNameError{Name: name, Candidates: candidates}
	}
	if kind == 0 {
		return
	}
	return db.peel(digest, kind)
}

func (db *Db) candidates(name string) (candidates []string, err error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	seen := make(map[string]bool)
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			candidates = append(candidates, d)
		}
	}

	for _, rule := range refRules {
		refname := strings.Replace(rule, "%s", name, 1)
		if refname != "HEAD" && !validRefName(refname) {
			continue
		}
		var d string
		d, err = db.ReadRef(refname)
		if err == nil {
			add(d)
			break
		}
		var rnf *RefNotFoundError
		if !errors.As(err, &rnf) {
			return nil, err
		}
		err = nil
	}

	lower := strings.ToLower(name)
	if !isHex(lower) {
		return
	}
	if len(lower) == HexLen(db.Store.Algo()) {
		add(lower)
		return
	}
	if len(lower) < MinPrefix {
		return
	}
	matches, err := db.Store.Match(lower)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		add(m)
	}
	return
}

// peel follows digest until it reaches an object of kind.
func (db *Db) peel(digest string, kind Kind) (string, error) {
	start := digest
	for {
		obj, err := db.ReadObject(digest)
		if err != nil {
			return "", err
		}
		if obj.Kind() == kind {
			return digest, nil
		}
		switch o := obj.(type) {
		case *Tag:
			digest = o.Object()
		case *Commit:
			if kind != KindTree {
				return "", &KindMismatchError{Digest: start, Want: kind, Got: obj.Kind()}
			}
			digest = o.Tree()
		default:
			return "", &KindMismatchError{Digest: start, Want: kind, Got: obj.Kind()}
		}
	}
}
