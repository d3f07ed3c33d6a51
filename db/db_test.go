package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreate(t *testing.T) {
	db := setup(t)
	for _, sub := range []string{"objects", "refs/heads", "refs/tags", "branches"} {
		tassert(t, isdir(db.Path(sub)), "missing %s", sub)
	}
	head, err := os.ReadFile(db.Path("HEAD"))
	tassert(t, err == nil, "read HEAD: %v", err)
	tassert(t, string(head) == "ref: refs/heads/master\n", "HEAD %q", head)

	tassert(t, db.Config.FormatVersion == 0, "version %d", db.Config.FormatVersion)
	tassert(t, !db.Config.Bare, "bare")
	tassert(t, !db.Config.FileMode, "filemode")
	tassert(t, db.Store.Algo() == "sha1", "algo %s", db.Store.Algo())
}

func TestCreateConflict(t *testing.T) {
	db := setup(t)

	// gitdir not empty
	_, err := Db{Worktree: db.Worktree}.Create()
	var ee *ExistsError
	tassert(t, errors.As(err, &ee), "expected ExistsError, got %v", err)

	// worktree is a file
	file := filepath.Join(t.TempDir(), "file")
	err = os.WriteFile(file, mkbuf("x"), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)
	_, err = Db{Worktree: file}.Create()
	tassert(t, errors.As(err, &ee), "expected ExistsError, got %v", err)

	// empty gitdir is fine
	dir := t.TempDir()
	err = os.Mkdir(filepath.Join(dir, GitDirName), 0755)
	tassert(t, err == nil, "Mkdir: %v", err)
	_, err = Db{Worktree: dir}.Create()
	tassert(t, err == nil, "Create over empty gitdir: %v", err)

	// non-empty worktree is fine
	dir = t.TempDir()
	err = os.WriteFile(filepath.Join(dir, "README"), mkbuf("x"), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)
	_, err = Db{Worktree: dir}.Create()
	tassert(t, err == nil, "Create in populated worktree: %v", err)
}

func TestOpen(t *testing.T) {
	db := setup(t)
	db2, err := Open(db.Worktree)
	tassert(t, err == nil, "Open: %v", err)
	tassert(t, db2.GitDir == db.GitDir, "gitdir %s != %s", db2.GitDir, db.GitDir)

	_, err = Open(t.TempDir())
	tassert(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestOpenBadConfig(t *testing.T) {
	var ce *ConfigError

	db := setup(t)
	err := os.WriteFile(db.Path("config"), mkbuf("[core]\n\trepositoryformatversion = 1\n"), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)
	_, err = Open(db.Worktree)
	tassert(t, errors.As(err, &ce), "expected ConfigError, got %v", err)

	err = os.WriteFile(db.Path("config"), mkbuf("[core]\n\tbare = false\n"), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)
	_, err = Open(db.Worktree)
	tassert(t, errors.As(err, &ce), "expected ConfigError, got %v", err)

	err = os.Remove(db.Path("config"))
	tassert(t, err == nil, "Remove: %v", err)
	_, err = Open(db.Worktree)
	tassert(t, errors.As(err, &ce), "expected ConfigError, got %v", err)
}

func TestConfigUser(t *testing.T) {
	db := setup(t)
	conf := "[core]\n\trepositoryformatversion = 0\n\tfilemode = true\n\tbare = false\n" +
		"[user]\n\tname = A U Thor\n\temail = author@example.com\n"
	err := os.WriteFile(db.Path("config"), mkbuf(conf), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)
	db, err = Open(db.Worktree)
	tassert(t, err == nil, "Open: %v", err)
	tassert(t, db.Config.FileMode, "filemode not read")
	tassert(t, db.Config.UserName == "A U Thor", "user.name %q", db.Config.UserName)
	tassert(t, db.Config.UserEmail == "author@example.com", "user.email %q", db.Config.UserEmail)
}

func TestLocate(t *testing.T) {
	outer := setup(t)
	inner, err := Db{Worktree: filepath.Join(outer.Worktree, "sub", "inner")}.Create()
	tassert(t, err == nil, "Create inner: %v", err)

	deep := filepath.Join(inner.Worktree, "a", "b", "c")
	err = os.MkdirAll(deep, 0755)
	tassert(t, err == nil, "MkdirAll: %v", err)
	db, err := Locate(deep)
	tassert(t, err == nil, "Locate: %v", err)
	tassert(t, db.Worktree == inner.Worktree, "found %s, want %s", db.Worktree, inner.Worktree)

	mid := filepath.Join(outer.Worktree, "sub")
	db, err = Locate(mid)
	tassert(t, err == nil, "Locate: %v", err)
	tassert(t, db.Worktree == outer.Worktree, "found %s, want %s", db.Worktree, outer.Worktree)

	db, err = Locate(outer.Worktree)
	tassert(t, err == nil, "Locate: %v", err)
	tassert(t, db.Worktree == outer.Worktree, "found %s, want %s", db.Worktree, outer.Worktree)
}

func TestLocateNotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "x", "y")
	err := os.MkdirAll(dir, 0755)
	tassert(t, err == nil, "MkdirAll: %v", err)
	_, err = Locate(dir)
	// a repository above the temp dir would make this test meaningless
	if err == nil {
		t.Skip("temp dir is inside a repository")
	}
	tassert(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestDbObjects(t *testing.T) {
	db := setup(t)
	blob := &Blob{Data: mkbuf("hello\n")}

	digest, err := db.HashObject(blob)
	tassert(t, err == nil, "HashObject: %v", err)
	ok, err := db.Store.Exists(digest)
	tassert(t, err == nil && !ok, "HashObject stored the object")

	digest2, err := db.WriteObject(blob)
	tassert(t, err == nil, "WriteObject: %v", err)
	tassert(t, digest == digest2, "digests differ %s %s", digest, digest2)
	tassert(t, canstat(filepath.Join(db.GitDir, "objects", "ce", helloBlob[2:])), "object file missing")

	obj, err := db.ReadObject(digest)
	tassert(t, err == nil, "ReadObject: %v", err)
	tassert(t, string(obj.(*Blob).Data) == "hello\n", "payload %q", obj.(*Blob).Data)

	_, err = db.ReadCommit(digest)
	var km *KindMismatchError
	tassert(t, errors.As(err, &km), "expected KindMismatchError, got %v", err)
}
