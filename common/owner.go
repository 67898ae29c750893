package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OwnerKey is the storage key under which contracts persist the
// designated administrator address.
const OwnerKey = "contractOwner"

// ContractOwner returns the administrator address stored by the contract.
func ContractOwner(ctx storage.Context) interop.Hash160 {
	owner := storage.Get(ctx, OwnerKey)
	if owner == nil {
		panic("contract owner is not set")
	}
	return owner.(interop.Hash160)
}

// CheckOwnerWitness panics with ErrOwnerWitnessFailed unless the stored
// administrator witnesses the current transaction.
func CheckOwnerWitness(ctx storage.Context) {
	if !runtime.CheckWitness(ContractOwner(ctx)) {
		panic(ErrOwnerWitnessFailed)
	}
}
