package db

import (
	"fmt"
	"path/filepath"
)

// ShardWidth is the number of leading digest characters used as the
// directory name of a loose object.  Git uses two, giving at most 256
// subdirs under objects/.
const ShardWidth = 2

// Path locates a loose object on disk.
type Path struct {
	Dir   string // objects directory
	Hash  string // full hex digest
	Shard string // first ShardWidth characters of Hash
	Rel   string // relative to Dir: <shard>/<rest>
	Abs   string // absolute
}

// New builds the Path of digest under the objects directory dir.
func (path Path) New(dir string, digest string) (res *Path, err error) {
	if len(digest) <= ShardWidth || !isHex(digest) {
		return nil, fmt.Errorf("malformed digest: %q", digest)
	}
	path.Dir = dir
	path.Hash = digest
	path.Shard = digest[:ShardWidth]
	path.Rel = filepath.Join(path.Shard, digest[ShardWidth:])
	path.Abs = filepath.Join(dir, path.Rel)
	return &path, nil
}
