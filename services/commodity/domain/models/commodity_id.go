package models

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// CommodityIDSize is the byte length of a commodity identifier.
const CommodityIDSize = 32

// CommodityID is the opaque, caller-supplied identifier of a commodity.
// It is rendered as 0x-prefixed lowercase hex.
type CommodityID [CommodityIDSize]byte

// ParseCommodityID decodes a hex identifier, with or without the 0x prefix.
func ParseCommodityID(s string) (CommodityID, error) {
	var id CommodityID
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != CommodityIDSize*2 {
		return id, fmt.Errorf("commodity id must be %d hex characters, got %d", CommodityIDSize*2, len(raw))
	}
	if _, err := hex.Decode(id[:], []byte(raw)); err != nil {
		return id, fmt.Errorf("commodity id is not valid hex: %w", err)
	}
	return id, nil
}

// DigestCommodityID derives an identifier from arbitrary content using blake2b-256.
func DigestCommodityID(content []byte) CommodityID {
	return CommodityID(blake2b.Sum256(content))
}

// String returns the 0x-prefixed hex form.
func (id CommodityID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether every byte is zero.
func (id CommodityID) IsZero() bool {
	return id == CommodityID{}
}

// MarshalText implements encoding.TextMarshaler.
func (id CommodityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *CommodityID) UnmarshalText(text []byte) error {
	parsed, err := ParseCommodityID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
