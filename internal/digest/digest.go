// Package digest computes content fingerprints for change detection.
//
// Digests are xxh3 hashes rendered as fixed-width hex. They are not a
// security boundary; the only requirement is that equal content produces
// equal digests across runs.
package digest

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Unknown is the sentinel returned when a file cannot be read. A cache
// entry holding Unknown always classifies as changed on the next run.
const Unknown = ""

// File streams the file at path and returns its hex digest. Any I/O error
// (permissions, file vanished mid-scan) yields Unknown rather than an error;
// hashing failures must never abort a scan.
func File(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return Unknown
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return Unknown
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Bytes returns the hex digest of in-memory content.
func Bytes(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}
