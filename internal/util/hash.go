package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// GenerateHash derives a short stable identifier from the document text and
// a timestamp, used when an ingested document carries no id of its own.
func GenerateHash(text string, timestamp int64) string {
	hasher := sha256.New()
	hasher.Write([]byte(text))
	hasher.Write([]byte(strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(hasher.Sum(nil))[:16] // Use first 16 chars of the hash
}
