package db

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const symrefPrefix = "ref: "

// maxSymrefDepth bounds chains of symbolic refs.
const maxSymrefDepth = 5

// Ref is a named pointer at a digest.
type Ref struct {
	Name   string // relative to the gitdir, e.g. refs/heads/master
	Digest string
}

// ReadRef returns the digest name points at, following symbolic refs.
// name is relative to the gitdir.
func (db *Db) ReadRef(name string) (digest string, err error) {
	cur := name
	for i := 0; i < maxSymrefDepth; i++ {
		path := db.Path(filepath.FromSlash(cur))
		if isdir(path) {
			return "", &RefNotFoundError{Name: cur}
		}
		buf, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", &RefNotFoundError{Name: cur}
		}
		if err != nil {
			return "", errors.Wrapf(err, "read ref %s", cur)
		}
		txt := strings.TrimSpace(string(buf))
		if !strings.HasPrefix(txt, symrefPrefix) {
			return txt, nil
		}
		cur = strings.TrimSpace(strings.TrimPrefix(txt, symrefPrefix))
	}
	return "", errors.Errorf("ref %s: too many levels of symbolic refs", name)
}

// SymbolicRef returns the ref name points at if name is symbolic, and
// "" otherwise.
func (db *Db) SymbolicRef(name string) (target string, err error) {
	buf, err := os.ReadFile(db.Path(filepath.FromSlash(name)))
	if os.IsNotExist(err) {
		return "", &RefNotFoundError{Name: name}
	}
	if err != nil {
		return
	}
	txt := strings.TrimSpace(string(buf))
	if strings.HasPrefix(txt, symrefPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(txt, symrefPrefix)), nil
	}
	return "", nil
}

// UpdateRef points name at digest.  A symbolic ref such as HEAD is
// followed, so updating HEAD moves the current branch.
func (db *Db) UpdateRef(name string, digest string) (err error) {
	for i := 0; i < maxSymrefDepth; i++ {
		target, err := db.SymbolicRef(name)
		if err != nil {
			var rnf *RefNotFoundError
			if !errors.As(err, &rnf) {
				return err
			}
			break
		}
		if target == "" {
			break
		}
		name = target
	}
	if !validRefName(name) {
		return errors.Errorf("invalid ref name: %q", name)
	}
	path := db.Path(filepath.FromSlash(name))
	err = mkdir(filepath.Dir(path))
	if err != nil {
		return
	}
	err = renameio.WriteFile(path, []byte(digest+"\n"), WRITE)
	if err != nil {
		return errors.Wrapf(err, "write ref %s", name)
	}
	log.Debugf("ref %s -> %s", name, digest)
	return
}

func validRefName(name string) bool {
	if name == "HEAD" {
		return true
	}
	if !strings.HasPrefix(name, "refs/") || strings.HasSuffix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." || strings.HasPrefix(part, ".") {
			return false
		}
	}
	return !strings.ContainsAny(name, " ~^:?*[\\")
}

// ListRefs returns every ref under refs/, resolved and sorted by name.
func (db *Db) ListRefs() (refs []Ref, err error) {
	root := db.Path("refs")
	var names []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(db.GitDir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "list refs")
	}
	sort.Strings(names)
	for _, name := range names {
		digest, err := db.ReadRef(name)
		if err != nil {
			var rnf *RefNotFoundError
			if errors.As(err, &rnf) {
				// dangling symbolic ref
				continue
			}
			return nil, err
		}
		refs = append(refs, Ref{Name: name, Digest: digest})
	}
	return
}

// CreateTag points refs/tags/<name> at target.  If tag is non-nil the
// annotated tag object is written first and the ref points at it.
func (db *Db) CreateTag(name string, target string, tag *Tag) (digest string, err error) {
	digest = target
	if tag != nil {
		digest, err = db.WriteObject(tag)
		if err != nil {
			return
		}
	}
	err = db.UpdateRef("refs/tags/"+name, digest)
	return
}
