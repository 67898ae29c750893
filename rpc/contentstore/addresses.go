package contentstore

import (
	"crypto/sha256"
	"fmt"

	"github.com/datapointlabs/datapoint-contract/contracts/contentstore/storeconst"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// CalculateAddress computes a data point address off-chain, without talking
// to the contract. It mirrors the contract's derivation exactly: SHA-256
// over the content with [storeconst.ProtocolVersion] appended.
func CalculateAddress(data []byte) util.Uint256 {
	tagged := make([]byte, 0, len(data)+1)
	tagged = append(tagged, data...)
	tagged = append(tagged, storeconst.ProtocolVersion)

	return util.Uint256(sha256.Sum256(tagged))
}

// AddressToString returns the conventional base58 string form of a data
// point address.
func AddressToString(addr util.Uint256) string {
	return base58.Encode(addr[:])
}

// AddressFromString decodes a base58 data point address produced by
// AddressToString.
func AddressFromString(s string) (util.Uint256, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return util.Uint256{}, fmt.Errorf("invalid data point address %q: %w", s, err)
	}
	if len(b) != util.Uint256Size {
		return util.Uint256{}, fmt.Errorf("invalid data point address %q: %d bytes instead of %d", s, len(b), util.Uint256Size)
	}

	var addr util.Uint256
	copy(addr[:], b)
	return addr, nil
}
