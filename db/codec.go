package db

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"syscall"

	"github.com/klauspost/compress/zlib"
	"github.com/multiformats/go-multihash"
)

// DefaultAlgo is the digest algorithm of git's on-disk format.
const DefaultAlgo = "sha1"

var algos = map[string]uint64{
	"sha1":   multihash.SHA1,
	"sha256": multihash.SHA2_256,
}

// Hash returns the binary digest of buf under algo.
func Hash(algo string, buf []byte) (binhash []byte, err error) {
	code, ok := algos[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %s", syscall.ENOSYS, algo)
	}
	mh, err := multihash.Sum(buf, code, -1)
	if err != nil {
		return
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return
	}
	return decoded.Digest, nil
}

// HexLen returns the number of hex characters in an algo's digest, or
// zero for an unknown algo.
func HexLen(algo string) int {
	switch algo {
	case "sha1":
		return 40
	case "sha256":
		return 64
	}
	return 0
}

func bin2hex(bin []byte) string {
	return hex.EncodeToString(bin)
}

// isHex reports whether s is non-empty lowercase hexadecimal.
func isHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Compress returns buf as a zlib stream.
func Compress(buf []byte) (out []byte, err error) {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	_, err = w.Write(buf)
	if err != nil {
		return
	}
	err = w.Close()
	if err != nil {
		return
	}
	return b.Bytes(), nil
}

// Decompress inflates a zlib stream.  An invalid stream yields a
// *CorruptObjectError with an empty Digest; callers that know the
// digest fill it in.
func Decompress(buf []byte) (out []byte, err error) {
	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &CorruptObjectError{Err: err}
	}
	defer r.Close()
	out, err = io.ReadAll(r)
	if err != nil {
		return nil, &CorruptObjectError{Err: err}
	}
	return
}
