package tests

import (
	"math/rand"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	contentstorePath  = "../contracts/contentstore"
	royaltyledgerPath = "../contracts/royaltyledger"
	reentrantPath     = "../internal/testcontracts/reentrant"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func deployContentStoreContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, contentstorePath,
		path.Join(contentstorePath, "config.yml"))
	e.DeployContract(t, ctr, nil)
	return ctr.Hash
}

func deployRoyaltyLedgerContract(t *testing.T, e *neotest.Executor, owner, store util.Uint160, rate int64) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, royaltyledgerPath,
		path.Join(royaltyledgerPath, "config.yml"))
	e.DeployContract(t, ctr, []any{owner, store, rate})
	return ctr.Hash
}

// depositGAS tops up the in-ledger balance by sending GAS to the ledger
// contract. With a non-nil receiver the deposit is credited to it instead
// of the sender.
func depositGAS(t *testing.T, e *neotest.Executor, from neotest.Signer, ledger util.Uint160, amount int64, receiver any) {
	gasHash := e.NativeHash(t, nativenames.Gas)
	e.NewInvoker(gasHash, from).Invoke(t, true, "transfer",
		from.ScriptHash(), ledger, amount, receiver)
}
