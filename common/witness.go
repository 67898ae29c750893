package common

// ErrOwnerWitnessFailed appears when the method must be called
// by the contract administrator but was not.
var ErrOwnerWitnessFailed = "owner witness check failed"
