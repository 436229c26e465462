package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashlistDigest computes a deterministic digest of a hashlist.
// Formula: SHA256(token_0\ntoken_1\n...\ntoken_n)
// Order matters: the same tokens in another order are a different hashlist.
// Returns hex-encoded hash (64 characters).
func HashlistDigest(tokens []string) string {
	hash := sha256.Sum256([]byte(strings.Join(tokens, "\n")))
	return hex.EncodeToString(hash[:])
}

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: SHA256(hashlist_digest|vault|taken_at)
// Returns hex-encoded hash (64 characters).
func ComputeSnapshotID(hashlistDigest, vault string, takenAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", hashlistDigest, vault, takenAt)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeRunID computes a deterministic run_id for a minter scan.
// Formula: SHA256(command|hashlist_digest|started_at)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(command, hashlistDigest string, startedAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", command, hashlistDigest, startedAt)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
