// Package royaltyconst contains constants of the RoyaltyLedger contract that
// are also useful for off-chain tooling.
package royaltyconst

const (
	// DAOShareDivisor determines the protocol's cut of every royalty
	// payment: daoShare = royalty / DAOShareDivisor, the remainder of the
	// integer division stays with the publisher share.
	DAOShareDivisor = 10

	// MaxRoyaltyRate is the maximum accepted cost-per-resource-unit
	// multiplier.
	MaxRoyaltyRate = 1_0000_0000_0000
)
