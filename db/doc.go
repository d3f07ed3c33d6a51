/*

Package db is a content-addressable object store laid out the way git
lays out its loose objects, plus the commit-history model built on it.

Vocabulary:

- worktree: the directory a repository tracks
- gitdir: the metadata store inside the worktree, normally ".git"
- algo: name (string) of the digest algorithm, "sha1" unless stated
- digest: lowercase hex hash of an object's frame; both storage key and
  identity
- frame: kind token, space, decimal payload length, NUL, payload
- kind: one of blob, tree, commit, tag
- shard: the first two hex characters of a digest, used as a directory
  name under objects/ to keep directory sizes small
- loose object: one zlib-compressed frame per file at
  objects/<shard>/<rest of digest>
- ref: a file under the gitdir holding a digest or "ref: <other ref>"
- name: anything Resolve accepts (HEAD, a ref, a digest or a digest
  prefix)

Objects are written once and never modified.  Writing content that is
already stored returns the existing digest without touching the disk.

*/

package db
