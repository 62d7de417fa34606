// Package fingerprint computes content digests used to detect document changes.
//
// A digest is embedded in the first block of every synced page and later found
// again by substring search, so every algorithm must produce a fixed-format,
// whitespace-free string.
package fingerprint

import (
	"crypto/md5" //nolint:gosec // change detection, not security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/notionsync/internal/frontmatter"
)

// Algorithm names a digest function.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	// MDFP hashes frontmatter and body separately through github.com/inful/mdfp.
	MDFP Algorithm = "mdfp"
)

// Default is used when no algorithm is configured.
const Default = MD5

// Digest returns the lowercase hex MD5 of raw.
func Digest(raw []byte) string {
	sum := md5.Sum(raw) //nolint:gosec // change detection, not security
	return hex.EncodeToString(sum[:])
}

// Compute returns the digest of raw under alg.
func Compute(alg Algorithm, raw []byte) (string, error) {
	switch alg {
	case MD5, "":
		return Digest(raw), nil
	case SHA256:
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:]), nil
	case MDFP:
		return markdownFingerprint(raw), nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q", alg)
	}
}

// Label is the prefix written in front of the digest in a page's metadata block.
func Label(alg Algorithm) string {
	switch alg {
	case SHA256:
		return "SHA256"
	case MDFP:
		return "Fingerprint"
	default:
		return "MD5"
	}
}

// Parse normalizes user input into an Algorithm.
func Parse(raw string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(raw))); a {
	case "":
		return Default, nil
	case MD5, SHA256, MDFP:
		return a, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q (want md5, sha256 or mdfp)", raw)
	}
}

// markdownFingerprint falls back to treating the whole file as body when the
// frontmatter block is malformed, so a broken header still yields a stable value.
func markdownFingerprint(raw []byte) string {
	doc, err := frontmatter.Split(raw)
	if err != nil || !doc.Had {
		return mdfp.CalculateFingerprintFromParts("", string(raw))
	}
	fm := strings.TrimSuffix(strings.TrimSuffix(string(doc.Frontmatter), "\n"), "\r")
	return mdfp.CalculateFingerprintFromParts(fm, string(doc.Body))
}
