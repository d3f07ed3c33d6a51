package db

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// file modes
const (
	READ  = 0444
	WRITE = 0644
)

// FileStore keeps loose objects under Dir, one zlib-compressed frame
// per file at <Dir>/<shard>/<rest of digest>.  Files are written to a
// temporary name and renamed into place, so a reader never sees a
// partial object.
type FileStore struct {
	Dir  string // objects directory
	algo string
}

// NewFileStore returns a FileStore rooted at dir.  An empty algo means
// DefaultAlgo.
func NewFileStore(dir string, algo string) *FileStore {
	if algo == "" {
		algo = DefaultAlgo
	}
	return &FileStore{Dir: dir, algo: algo}
}

func (s *FileStore) Algo() string {
	return s.algo
}

// Path returns the on-disk location of digest.
func (s *FileStore) Path(digest string) (*Path, error) {
	return Path{}.New(s.Dir, digest)
}

func (s *FileStore) Exists(digest string) (ok bool, err error) {
	path, err := s.Path(digest)
	if err != nil {
		return
	}
	_, err = os.Stat(path.Abs)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) Read(digest string) (obj Object, err error) {
	path, err := s.Path(digest)
	if err != nil {
		return
	}
	buf, err := os.ReadFile(path.Abs)
	if os.IsNotExist(err) {
		return nil, &ObjectNotFoundError{Digest: digest}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read object %s", digest)
	}
	frame, err := Decompress(buf)
	if err != nil {
		var ce *CorruptObjectError
		if errors.As(err, &ce) {
			ce.Digest = digest
		}
		return
	}
	kind, payload, err := Unframe(digest, frame)
	if err != nil {
		return
	}
	return Decode(kind, payload)
}

func (s *FileStore) Write(obj Object) (digest string, err error) {
	defer Return(&err)

	digest, frame, err := Encode(s.algo, obj)
	if err != nil {
		return
	}
	path, err := s.Path(digest)
	Ck(err)

	// objects are immutable, so an existing file is already correct
	if canstat(path.Abs) {
		log.Debugf("object %s exists, skipping write", digest)
		return
	}

	buf, err := Compress(frame)
	Ck(err)
	err = mkdir(filepath.Dir(path.Abs))
	Ck(err)
	err = renameio.WriteFile(path.Abs, buf, READ)
	Ck(err)
	log.Debugf("wrote %s %s (%d bytes)", obj.Kind(), digest, len(frame))
	return
}

func (s *FileStore) Match(prefix string) (digests []string, err error) {
	if len(prefix) < ShardWidth || !isHex(prefix) {
		return nil, nil
	}
	dir := filepath.Join(s.Dir, prefix[:ShardWidth])
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return
	}
	rest := prefix[ShardWidth:]
	for _, ent := range entries {
		name := ent.Name()
		// skip renameio temp files
		if ent.IsDir() || !isHex(name) {
			continue
		}
		if strings.HasPrefix(name, rest) {
			digests = append(digests, prefix[:ShardWidth]+name)
		}
	}
	sort.Strings(digests)
	return
}
