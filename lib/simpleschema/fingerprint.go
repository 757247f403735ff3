// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// fingerprintKey is the 32-byte BLAKE3 key for schema fingerprints.
// Domain separation ensures schema digests never collide with hashes
// of the same bytes computed elsewhere. The byte values are the ASCII
// encoding of the domain name, zero-padded to 32 bytes, so the key is
// inspectable in hex dumps without sacrificing any cryptographic
// property. Changing the key invalidates all published fingerprints.
var fingerprintKey = [32]byte{
	'c', 'o', 'n', 'c', 'i', 'e', 'r', 'g', 'e', ' ', 's', 'c', 'h', 'e', 'm', 'a', ' ',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't', ' ', 'v', '1', 0,
}

// fingerprintSize is the digest length in bytes. 16 bytes (32 hex
// characters) is plenty for cache validation, which is the
// fingerprint's job.
const fingerprintSize = 16

// Fingerprint computes a stable hex digest of a schema document. Equal
// schemas produce equal fingerprints across processes and releases, so
// the digest works as an HTTP ETag and as a cheap change detector for
// cached schema documents.
//
// The digest is a keyed BLAKE3 hash over the schema's canonical JSON
// encoding (object keys sorted, no insignificant whitespace).
func Fingerprint(schema *Schema) (string, error) {
	canonical, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("fingerprinting schema: %w", err)
	}

	// NewKeyed requires exactly 32 bytes, which the fixed-size key
	// guarantees, so the error path is unreachable.
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("simpleschema: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(canonical)

	digest := hasher.Digest()
	sum := make([]byte, fingerprintSize)
	if _, err := digest.Read(sum); err != nil {
		return "", fmt.Errorf("fingerprinting schema: %w", err)
	}
	return hex.EncodeToString(sum), nil
}
