package db

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// NotFoundError is returned when no repository exists at or above a
// directory.
type NotFoundError struct {
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not a repository (or any parent up to /): %s", e.Dir)
}

// ConfigError is returned when a repository's config file is missing,
// unreadable, or declares an unsupported format version.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid repository config %s: %s", e.Path, e.Reason)
}

// ExistsError is returned by Create when the target gitdir is not
// empty or the worktree is not a directory.
type ExistsError struct {
	Dir string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("path conflict: %s exists and is not an empty directory", e.Dir)
}

// ObjectNotFoundError is returned when no object is stored under a
// digest.  Callers that only want to know about presence can use
// IsObjectNotFound.
type ObjectNotFoundError struct {
	Digest string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.Digest)
}

// MalformedObjectError is returned when a stored frame does not parse
// or its length prefix disagrees with its payload.
type MalformedObjectError struct {
	Digest string
	Reason string
}

func (e *MalformedObjectError) Error() string {
	return fmt.Sprintf("malformed object %s: %s", e.Digest, e.Reason)
}

// UnknownKindError is returned for a kind token absent from the
// dispatch table.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown object kind %q", e.Kind)
}

// CorruptObjectError is returned when a stored file is not a valid
// zlib stream.
type CorruptObjectError struct {
	Digest string
	Err    error
}

func (e *CorruptObjectError) Error() string {
	return fmt.Sprintf("corrupt object %s: %v", e.Digest, e.Err)
}

func (e *CorruptObjectError) Unwrap() error {
	return e.Err
}

// KindMismatchError is returned when an object is not of the kind a
// caller asked for and cannot be peeled to it.
type KindMismatchError struct {
	Digest string
	Want   Kind
	Got    Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("object %s is a %s, not a %s", e.Digest, e.Got, e.Want)
}

// NameNotFoundError is returned when Resolve finds nothing for a name.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("no such reference or object: %s", e.Name)
}

// AmbiguousNameError is returned when a name matches more than one
// object.
type AmbiguousNameError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("ambiguous name %s, candidates are:\n  %s",
		e.Name, strings.Join(e.Candidates, "\n  "))
}

// RefNotFoundError is returned when a ref file does not exist, including
// a symbolic ref pointing at an unborn branch.
type RefNotFoundError struct {
	Name string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("ref not found: %s", e.Name)
}

// IsObjectNotFound reports whether err means the object is absent.
func IsObjectNotFound(err error) bool {
	var e *ObjectNotFoundError
	return errors.As(err, &e)
}

// IsNotFound reports whether err means no repository was found.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
