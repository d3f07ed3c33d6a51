package db

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"
	"time"

	. "github.com/stevegt/goadapt"
)

const testDbDirPrefix = "gitbase"

// test boolean condition
func tassert(t *testing.T, cond bool, txt string, args ...interface{}) {
	t.Helper() // cause file:line info to show caller
	if !cond {
		t.Fatalf(txt, args...)
	}
}

func mkbuf(s string) []byte {
	tmp := []byte(s)
	return tmp
}

// setup creates a fresh repository.  With DEBUG=1 the repository is
// left behind for inspection.
func setup(t *testing.T) *Db {
	var err error
	var dir string

	debug := os.Getenv("DEBUG")
	if debug == "1" {
		dir, err = ioutil.TempDir("", testDbDirPrefix)
		Ck(err)
		fmt.Println(dir)
		// no cleanup
	} else {
		dir = t.TempDir()
		// automatically cleaned up
	}

	db, err := Db{Worktree: dir}.Create()
	tassert(t, err == nil, "Create: %v", err)
	tassert(t, db != nil, "db is nil")
	return db
}

var epoch = time.Unix(0, 0).UTC()

func testSig(offset int) Signature {
	return Signature{Name: "A", Email: "a@x", When: epoch.Add(time.Duration(offset) * time.Second)}
}

// mkcommit stores a commit with the given parents and returns its
// digest.  The empty tree is used for every commit.
func mkcommit(t *testing.T, store Store, msg string, parents ...string) string {
	t.Helper()
	c := NewCommit(emptyTree, parents, testSig(len(msg)), testSig(len(msg)), msg)
	digest, err := store.Write(c)
	tassert(t, err == nil, "write commit %q: %v", msg, err)
	return digest
}

const (
	helloBlob = "ce013625030ba8dba906f756967f9e9ca394464a"
	emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
)
