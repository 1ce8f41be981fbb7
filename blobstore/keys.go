package blobstore

import "encoding/base32"

// KeyEncoder turns a raw byte key into the textual path a blob is stored
// under. Implementations must be deterministic and injective: the same key
// always yields the same path, and distinct keys must never share one.
type KeyEncoder interface {
	Encode(key []byte) string
}

// pathEncoding is unpadded lowercase base32. Lowercase keeps paths safe for
// case-insensitive listings and the alphabet contains no separators.
var pathEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Base32Encoder is the default KeyEncoder.
type Base32Encoder struct{}

func (Base32Encoder) Encode(key []byte) string {
	return pathEncoding.EncodeToString(key)
}

// BuildKey computes the storage path for key under enc. When a prefix is
// configured the prefix bytes are prepended to the key before encoding, so
// stores with different prefixes sharing a bucket cannot collide as long as
// no prefix is a proper extension of another over the same key bytes.
// A nil enc uses Base32Encoder.
func BuildKey(enc KeyEncoder, prefix string, key []byte) string {
	if enc == nil {
		enc = Base32Encoder{}
	}
	if prefix == "" {
		return enc.Encode(key)
	}
	joined := make([]byte, 0, len(prefix)+len(key))
	joined = append(joined, prefix...)
	joined = append(joined, key...)
	return enc.Encode(joined)
}
