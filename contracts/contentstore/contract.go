package contentstore

import (
	"github.com/datapointlabs/datapoint-contract/common"
	"github.com/datapointlabs/datapoint-contract/contracts/contentstore/storeconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const dataKeyPrefix = 'd'

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("content store contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("content store contract updated")
}

// CalculateAddress returns the deterministic storage address of the given
// content. The address is a SHA-256 hash over the content with the protocol
// version appended, see [storeconst.ProtocolVersion]. The method is safe and
// never mutates contract state.
func CalculateAddress(data []byte) interop.Hash256 {
	tagged := append(data, storeconst.ProtocolVersion)
	return crypto.Sha256(tagged)
}

// Write stores the given content under its calculated address. Content is
// write-once: a repeated Write of the same bytes panics with the occupied
// address surfaced in the message. Empty content is rejected.
//
// It produces Written notification.
func Write(data []byte) interop.Hash256 {
	if len(data) == 0 {
		panic("invalid data")
	}

	addr := CalculateAddress(data)
	key := append([]byte{dataKeyPrefix}, addr...)

	ctx := storage.GetContext()
	if storage.Get(ctx, key) != nil {
		panic("data already exists: " + std.Base64Encode(addr))
	}

	storage.Put(ctx, key, data)
	runtime.Notify("Written", addr)

	return addr
}

// Read returns content stored at the given address or an empty byte array
// if there is none. Absence is a value, not an error.
func Read(addr interop.Hash256) []byte {
	checkAddress(addr)

	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{dataKeyPrefix}, addr...))
	if data == nil {
		return []byte{}
	}

	return data.([]byte)
}

// Size returns the length of content stored at the given address, zero if
// there is none.
func Size(addr interop.Hash256) int {
	checkAddress(addr)

	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{dataKeyPrefix}, addr...))
	if data == nil {
		return 0
	}

	return len(data.([]byte))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkAddress(addr interop.Hash256) {
	if len(addr) != interop.Hash256Len {
		panic("invalid data point address")
	}
}
