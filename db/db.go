package db

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// GitDirName is the name of the metadata store inside a worktree.
const GitDirName = ".git"

// Db is a repository: a worktree, the gitdir inside it, the config
// read at open time, and the object store.
type Db struct {
	Worktree string
	GitDir   string
	Config   *Config
	Store    Store
}

// Create initializes a repository at db.Worktree.  The worktree may
// already exist, but its gitdir must be absent or empty.
func (db Db) Create() (out *Db, err error) {
	defer Return(&err)

	Assert(db.Worktree != "", "worktree not set")
	worktree := filepath.Clean(db.Worktree)
	gitdir := filepath.Join(worktree, GitDirName)

	if canstat(worktree) && !isdir(worktree) {
		return nil, &ExistsError{Dir: worktree}
	}
	if canstat(gitdir) {
		if !isdir(gitdir) {
			return nil, &ExistsError{Dir: gitdir}
		}
		var entries []os.DirEntry
		entries, err = os.ReadDir(gitdir)
		Ck(err)
		if len(entries) > 0 {
			return nil, &ExistsError{Dir: gitdir}
		}
	}

	for _, sub := range []string{
		"branches",
		"objects",
		filepath.Join("refs", "tags"),
		filepath.Join("refs", "heads"),
	} {
		err = mkdir(filepath.Join(gitdir, sub))
		Ck(err)
	}

	err = os.WriteFile(filepath.Join(gitdir, "description"),
		[]byte("Unnamed repository; edit this file 'description' to name the repository.\n"), WRITE)
	Ck(err)
	err = os.WriteFile(filepath.Join(gitdir, "HEAD"), []byte("ref: refs/heads/master\n"), WRITE)
	Ck(err)
	err = writeDefaultConfig(filepath.Join(gitdir, "config"))
	Ck(err)

	log.Debugf("created repository %s", gitdir)
	return Open(worktree)
}

// Open loads the repository whose worktree is dir.
func Open(dir string) (db *Db, err error) {
	worktree := filepath.Clean(dir)
	gitdir := filepath.Join(worktree, GitDirName)
	if !isdir(gitdir) {
		return nil, &NotFoundError{Dir: worktree}
	}
	conf, err := LoadConfig(filepath.Join(gitdir, "config"))
	if err != nil {
		return
	}
	db = &Db{
		Worktree: worktree,
		GitDir:   gitdir,
		Config:   conf,
		Store:    NewFileStore(filepath.Join(gitdir, "objects"), DefaultAlgo),
	}
	return
}

// Locate walks from start up through its ancestors and opens the first
// directory holding a gitdir.
func Locate(start string) (db *Db, err error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, errors.Wrapf(err, "locate %s", start)
	}
	for {
		if isdir(filepath.Join(dir, GitDirName)) {
			log.Debugf("found repository at %s", dir)
			return Open(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, &NotFoundError{Dir: start}
		}
		dir = parent
	}
}

// Path returns a path inside the gitdir.
func (db *Db) Path(parts ...string) string {
	return filepath.Join(append([]string{db.GitDir}, parts...)...)
}

// ReadObject returns the object stored under digest.
func (db *Db) ReadObject(digest string) (Object, error) {
	return db.Store.Read(digest)
}

// WriteObject stores obj and returns its digest.
func (db *Db) WriteObject(obj Object) (string, error) {
	return db.Store.Write(obj)
}

// HashObject returns obj's digest without storing it.
func (db *Db) HashObject(obj Object) (string, error) {
	return HashObject(db.Store.Algo(), obj)
}

// ReadCommit reads digest and checks that it is a commit.
func (db *Db) ReadCommit(digest string) (commit *Commit, err error) {
	return readCommit(db.Store, digest)
}

func readCommit(store Store, digest string) (commit *Commit, err error) {
	obj, err := store.Read(digest)
	if err != nil {
		return
	}
	commit, ok := obj.(*Commit)
	if !ok {
		return nil, &KindMismatchError{Digest: digest, Want: KindCommit, Got: obj.Kind()}
	}
	return
}
