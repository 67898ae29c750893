// Package storeconst contains constants of the ContentStore contract that
// are also useful for off-chain tooling.
package storeconst

// ProtocolVersion is the addressing scheme discriminant. It is folded into
// every data point address, so a future change of the scheme produces a
// disjoint address space instead of colliding with the current one.
const ProtocolVersion = 1
