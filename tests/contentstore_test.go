package tests

import (
	"crypto/sha256"
	"testing"

	"github.com/datapointlabs/datapoint-contract/common"
	"github.com/datapointlabs/datapoint-contract/contracts/contentstore/storeconst"
	rpccs "github.com/datapointlabs/datapoint-contract/rpc/contentstore"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newContentStoreInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployContentStoreContract(t, e)
	return e.CommitteeInvoker(h)
}

func TestContentStoreCalculateAddress(t *testing.T) {
	c := newContentStoreInvoker(t)

	data := randomBytes(64)
	expected := sha256.Sum256(append(data, storeconst.ProtocolVersion))

	c.Invoke(t, stackitem.NewByteArray(expected[:]), "calculateAddress", data)
	// Address derivation never consumes storage, the same content always
	// maps to the same address.
	c.Invoke(t, stackitem.NewByteArray(expected[:]), "calculateAddress", data)

	require.Equal(t, expected[:], rpccs.CalculateAddress(data).BytesBE())

	plain := sha256.Sum256(data)
	require.NotEqual(t, plain, expected)
}

func TestContentStoreWrite(t *testing.T) {
	c := newContentStoreInvoker(t)

	data := []byte("first data point")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.InvokeFail(t, "invalid data", "write", []byte{})

	c.Invoke(t, stackitem.NewByteArray(addr), "write", data)
	c.InvokeFail(t, "data already exists", "write", data)

	// Writing is permissionless, any account may publish.
	acc := c.NewAccount(t)
	other := []byte("second data point")
	c.WithSigners(acc).Invoke(t,
		stackitem.NewByteArray(rpccs.CalculateAddress(other).BytesBE()), "write", other)
	c.WithSigners(acc).InvokeFail(t, "data already exists", "write", data)
}

func TestContentStoreRead(t *testing.T) {
	c := newContentStoreInvoker(t)

	data := randomBytes(100)
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer([]byte{}), "read", addr)
	c.Invoke(t, 0, "size", addr)

	c.Invoke(t, stackitem.NewByteArray(addr), "write", data)

	c.Invoke(t, stackitem.NewBuffer(data), "read", addr)
	c.Invoke(t, 100, "size", addr)

	c.InvokeFail(t, "invalid data point address", "read", []byte{1, 2, 3})
	c.InvokeFail(t, "invalid data point address", "size", randomBytes(31))
}

func TestContentStoreUpdate(t *testing.T) {
	c := newContentStoreInvoker(t)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, "only committee can update contract",
		"update", []byte{}, []byte{}, nil)
}

func TestContentStoreVersion(t *testing.T) {
	c := newContentStoreInvoker(t)
	c.Invoke(t, common.Version, "version")
}
