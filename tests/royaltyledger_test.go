package tests

import (
	"math"
	"math/big"
	"path"
	"testing"

	"github.com/datapointlabs/datapoint-contract/common"
	"github.com/datapointlabs/datapoint-contract/contracts/royaltyledger/royaltyconst"
	rpccs "github.com/datapointlabs/datapoint-contract/rpc/contentstore"
	rpcledger "github.com/datapointlabs/datapoint-contract/rpc/royaltyledger"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// noPublisher waives royalties when passed as the publisher argument.
var noPublisher = []byte{}

func newLedgerEnv(t *testing.T, rate int64) (*neotest.Executor, *neotest.ContractInvoker, util.Uint160, util.Uint160) {
	e := newExecutor(t)
	storeHash := deployContentStoreContract(t, e)
	ledgerHash := deployRoyaltyLedgerContract(t, e, e.CommitteeHash, storeHash, rate)
	return e, e.CommitteeInvoker(ledgerHash), ledgerHash, storeHash
}

func ledgerBalance(t *testing.T, c *neotest.ContractInvoker, account util.Uint160) int64 {
	s, err := c.TestInvoke(t, "balanceOf", account)
	require.NoError(t, err)
	return s.Top().BigInt().Int64()
}

func royaltyRecordOf(t *testing.T, c *neotest.ContractInvoker, addr []byte) rpcledger.RoyaltyRecord {
	s, err := c.TestInvoke(t, "getRoyaltyRecord", addr)
	require.NoError(t, err)

	var rec rpcledger.RoyaltyRecord
	require.NoError(t, rec.FromStackItem(s.Top().Item()))
	return rec
}

func TestLedgerDeploy(t *testing.T) {
	e := newExecutor(t)
	store := deployContentStoreContract(t, e)
	ctr := neotest.CompileFile(t, e.CommitteeHash, royaltyledgerPath,
		path.Join(royaltyledgerPath, "config.yml"))

	e.DeployContractCheckFAULT(t, ctr,
		[]any{e.CommitteeHash, util.Uint160{}, int64(1)}, "invalid data point storage")
	e.DeployContractCheckFAULT(t, ctr,
		[]any{e.CommitteeHash, store, int64(-1)}, "royalty rate is out of range")
	e.DeployContractCheckFAULT(t, ctr,
		[]any{e.CommitteeHash, store, int64(royaltyconst.MaxRoyaltyRate + 1)}, "royalty rate is out of range")

	e.DeployContract(t, ctr, []any{e.CommitteeHash, store, int64(1)})

	c := e.CommitteeInvoker(ctr.Hash)
	c.Invoke(t, stackitem.NewBuffer(e.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.NewBuffer(store.BytesBE()), "contentStore")
	c.Invoke(t, 1, "royaltyRate")
}

func TestLedgerDeposit(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	payer := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 500, nil)
	require.EqualValues(t, 500, ledgerBalance(t, c, payer.ScriptHash()))

	// A deposit with a receiver hint is credited to the receiver.
	rcv := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 100, rcv.ScriptHash())
	require.EqualValues(t, 500, ledgerBalance(t, c, payer.ScriptHash()))
	require.EqualValues(t, 100, ledgerBalance(t, c, rcv.ScriptHash()))

	c.Invoke(t, 600, "totalSupply")
	c.InvokeFail(t, "invalid account", "balanceOf", []byte{1, 2, 3})
}

func TestLedgerRegisterNew(t *testing.T) {
	e, c, _, storeHash := newLedgerEnv(t, 1)

	pub := c.NewAccount(t)
	data := []byte("priced content")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pub.ScriptHash(), noPublisher)

	// Content went through to the store.
	e.CommitteeInvoker(storeHash).Invoke(t, stackitem.NewBuffer(data), "read", addr)

	rec := royaltyRecordOf(t, c, addr)
	require.Equal(t, pub.ScriptHash(), rec.Publisher)
	require.True(t, rec.ResourceCost.Sign() > 0,
		"resource cost of a measured store write must be positive")
	// Fee estimation runs with an unlimited gas budget and stores a
	// sentinel cost instead of a measurement; it must never be committed.
	require.True(t, rec.ResourceCost.IsInt64())
	require.Less(t, rec.ResourceCost.Int64(), int64(math.MaxInt64))

	s, err := c.TestInvoke(t, "getRoyalty", addr)
	require.NoError(t, err)
	require.Equal(t, rec.ResourceCost, s.Top().BigInt())
}

func TestLedgerRegisterWaived(t *testing.T) {
	_, c, _, _ := newLedgerEnv(t, 1)

	data := []byte("free content")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, noPublisher, noPublisher)
	c.Invoke(t, 0, "getRoyalty", addr)

	// Repeated registration of waived content is free for anyone and does
	// not capture the record for a late publisher.
	stranger := c.NewAccount(t)
	c.WithSigners(stranger).Invoke(t, stackitem.NewBuffer(addr),
		"register", data, stranger.ScriptHash(), noPublisher)
	c.Invoke(t, 0, "getRoyalty", addr)
	require.Equal(t, util.Uint160{}, royaltyRecordOf(t, c, addr).Publisher)

	// The all-zero publisher is the same thing as no publisher.
	other := []byte("also free")
	otherAddr := rpccs.CalculateAddress(other).BytesBE()
	c.Invoke(t, stackitem.NewBuffer(otherAddr), "register", other, util.Uint160{}, noPublisher)
	c.Invoke(t, 0, "getRoyalty", otherAddr)
}

func TestLedgerRoyaltyPayment(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	pub := c.NewAccount(t)
	data := []byte("pay per access")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pub.ScriptHash(), noPublisher)
	// Pin the frozen cost to a known value.
	c.Invoke(t, stackitem.Null{}, "updateRoyaltyRecord", addr, 30000, pub.ScriptHash())
	c.Invoke(t, 30000, "getRoyalty", addr)

	payer := c.NewAccount(t)
	cPayer := c.WithSigners(payer)

	cPayer.InvokeFail(t, "insufficient royalty payment: 30000 required",
		"register", data, noPublisher, payer.ScriptHash())

	depositGAS(t, e, payer, ledgerHash, 29999, nil)
	cPayer.InvokeFail(t, "insufficient royalty payment: 30000 required",
		"register", data, noPublisher, payer.ScriptHash())

	depositGAS(t, e, payer, ledgerHash, 1, nil)
	cPayer.Invoke(t, stackitem.NewBuffer(addr), "register", data, noPublisher, payer.ScriptHash())

	require.EqualValues(t, 27000, ledgerBalance(t, c, pub.ScriptHash()))
	require.EqualValues(t, 3000, ledgerBalance(t, c, e.CommitteeHash))
	require.EqualValues(t, 0, ledgerBalance(t, c, payer.ScriptHash()))
	// Royalty payments move value between balances, never out of the ledger.
	c.Invoke(t, 30000, "totalSupply")

	// Overpayment stays on the payer's balance.
	payer2 := c.NewAccount(t)
	depositGAS(t, e, payer2, ledgerHash, 30001, nil)
	c.WithSigners(payer2).Invoke(t, stackitem.NewBuffer(addr),
		"register", data, noPublisher, payer2.ScriptHash())
	require.EqualValues(t, 1, ledgerBalance(t, c, payer2.ScriptHash()))
	require.EqualValues(t, 54000, ledgerBalance(t, c, pub.ScriptHash()))
	require.EqualValues(t, 6000, ledgerBalance(t, c, e.CommitteeHash))

	// Spending someone else's balance requires their witness.
	payer3 := c.NewAccount(t)
	depositGAS(t, e, payer3, ledgerHash, 30000, nil)
	c.InvokeFail(t, "invalid payer", "register", data, noPublisher, payer3.ScriptHash())
}

func TestLedgerRoyaltySplitPrecision(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	pub := c.NewAccount(t)
	data := []byte("oddly priced content")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pub.ScriptHash(), noPublisher)

	// Non-divisible royalty: the owner share is floored, the publisher
	// gets the whole remainder.
	c.Invoke(t, stackitem.Null{}, "updateRoyaltyRecord", addr, 30001, pub.ScriptHash())

	payer := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 30001, nil)
	c.WithSigners(payer).Invoke(t, stackitem.NewBuffer(addr),
		"register", data, noPublisher, payer.ScriptHash())

	require.EqualValues(t, 27001, ledgerBalance(t, c, pub.ScriptHash()))
	require.EqualValues(t, 3000, ledgerBalance(t, c, e.CommitteeHash))
	require.EqualValues(t, 0, ledgerBalance(t, c, payer.ScriptHash()))

	// A very large frozen cost splits without drift.
	const bigCost = int64(123_456_789_012_345)
	c.Invoke(t, stackitem.Null{}, "updateRoyaltyRecord", addr, bigCost, pub.ScriptHash())
	c.Invoke(t, bigCost, "getRoyalty", addr)

	whale := c.NewAccount(t, bigCost+1_0000_0000)
	depositGAS(t, e, whale, ledgerHash, bigCost, nil)
	c.WithSigners(whale).Invoke(t, stackitem.NewBuffer(addr),
		"register", data, noPublisher, whale.ScriptHash())

	require.EqualValues(t, 27001+bigCost-bigCost/10, ledgerBalance(t, c, pub.ScriptHash()))
	require.EqualValues(t, 3000+bigCost/10, ledgerBalance(t, c, e.CommitteeHash))
	require.EqualValues(t, 0, ledgerBalance(t, c, whale.ScriptHash()))
	c.Invoke(t, 30001+bigCost, "totalSupply")
}

func TestLedgerRoyaltyRate(t *testing.T) {
	_, c, _, _ := newLedgerEnv(t, 2)

	pub := c.NewAccount(t)
	data := []byte("rated content")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pub.ScriptHash(), noPublisher)
	c.Invoke(t, stackitem.Null{}, "updateRoyaltyRecord", addr, 100, pub.ScriptHash())

	c.Invoke(t, 200, "getRoyalty", addr)

	// The rate applies to every subsequent access, frozen costs stay.
	c.Invoke(t, stackitem.Null{}, "setRoyaltyRate", 7)
	c.Invoke(t, 7, "royaltyRate")
	c.Invoke(t, 700, "getRoyalty", addr)

	c.Invoke(t, stackitem.Null{}, "setRoyaltyRate", 0)
	c.Invoke(t, 0, "getRoyalty", addr)

	c.InvokeFail(t, "royalty rate is out of range", "setRoyaltyRate", -1)
	c.InvokeFail(t, "royalty rate is out of range", "setRoyaltyRate", royaltyconst.MaxRoyaltyRate+1)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed, "setRoyaltyRate", 1)
}

func TestLedgerUpdatePublisher(t *testing.T) {
	_, c, _, _ := newLedgerEnv(t, 1)

	pubA := c.NewAccount(t)
	pubB := c.NewAccount(t)
	data := []byte("content changing hands")
	addr := rpccs.CalculateAddress(data).BytesBE()

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pubA.ScriptHash(), noPublisher)

	c.WithSigners(pubB).InvokeFail(t, "invalid publisher: expected",
		"updatePublisher", addr, pubB.ScriptHash())

	c.WithSigners(pubA).Invoke(t, stackitem.Null{}, "updatePublisher", addr, pubB.ScriptHash())
	require.Equal(t, pubB.ScriptHash(), royaltyRecordOf(t, c, addr).Publisher)

	// The previous publisher lost control.
	c.WithSigners(pubA).InvokeFail(t, "invalid publisher: expected",
		"updatePublisher", addr, pubA.ScriptHash())

	// Waiving is terminal, even for the one who waived.
	c.WithSigners(pubB).Invoke(t, stackitem.Null{}, "updatePublisher", addr, noPublisher)
	c.Invoke(t, 0, "getRoyalty", addr)
	c.WithSigners(pubB).InvokeFail(t, "royalties were waived",
		"updatePublisher", addr, pubB.ScriptHash())

	c.InvokeFail(t, "royalty record not found",
		"updatePublisher", randomBytes(32), pubA.ScriptHash())
}

func TestLedgerDirectWriteRepair(t *testing.T) {
	e, c, _, storeHash := newLedgerEnv(t, 1)

	pub := c.NewAccount(t)
	data := []byte("written behind the ledger's back")
	addr := rpccs.CalculateAddress(data).BytesBE()

	// The write bypasses the ledger, so its cost is never measured.
	e.CommitteeInvoker(storeHash).Invoke(t, stackitem.NewByteArray(addr), "write", data)

	c.Invoke(t, stackitem.NewBuffer(addr), "register", data, pub.ScriptHash(), noPublisher)

	rec := royaltyRecordOf(t, c, addr)
	require.Equal(t, pub.ScriptHash(), rec.Publisher)
	require.EqualValues(t, 0, rec.ResourceCost.Int64())
	c.Invoke(t, 0, "getRoyalty", addr)

	// Administrative repair restores pricing.
	c.Invoke(t, stackitem.Null{}, "updateRoyaltyRecord", addr, 5000, pub.ScriptHash())
	c.Invoke(t, 5000, "getRoyalty", addr)

	// Repair cannot create records and is owner-only.
	c.InvokeFail(t, "royalty record not found",
		"updateRoyaltyRecord", randomBytes(32), 1, pub.ScriptHash())
	c.InvokeFail(t, "invalid resource cost",
		"updateRoyaltyRecord", addr, -1, pub.ScriptHash())
	c.WithSigners(pub).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"updateRoyaltyRecord", addr, 1, pub.ScriptHash())
}

func TestLedgerCollectRoyalties(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	payer := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 50000, nil)

	rcv := util.Uint160{1, 2, 3}
	require.Equal(t, int64(0), e.Chain.GetUtilityTokenBalance(rcv).Int64())

	cPayer := c.WithSigners(payer)
	cPayer.Invoke(t, stackitem.Null{}, "collectRoyalties", payer.ScriptHash(), 20000, rcv)

	require.Equal(t, big.NewInt(20000), e.Chain.GetUtilityTokenBalance(rcv))
	require.EqualValues(t, 30000, ledgerBalance(t, c, payer.ScriptHash()))
	c.Invoke(t, 30000, "totalSupply")

	cPayer.InvokeFail(t, "insufficient balance", "collectRoyalties", payer.ScriptHash(), 30001, rcv)
	cPayer.InvokeFail(t, "non positive amount", "collectRoyalties", payer.ScriptHash(), 0, rcv)
	cPayer.InvokeFail(t, "invalid receiver", "collectRoyalties", payer.ScriptHash(), 1, []byte{1, 2})
	c.InvokeFail(t, "invalid payer", "collectRoyalties", payer.ScriptHash(), 1, rcv)
}

func TestLedgerTransfer(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	payer := c.NewAccount(t)
	other := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 1000, nil)

	c.Invoke(t, stackitem.Null{}, "transfer", payer.ScriptHash(), 400, other.ScriptHash())
	require.EqualValues(t, 600, ledgerBalance(t, c, payer.ScriptHash()))
	require.EqualValues(t, 400, ledgerBalance(t, c, other.ScriptHash()))
	c.Invoke(t, 1000, "totalSupply")

	c.InvokeFail(t, "insufficient balance", "transfer", payer.ScriptHash(), 601, other.ScriptHash())
	c.InvokeFail(t, "non positive amount", "transfer", payer.ScriptHash(), 0, other.ScriptHash())
	c.WithSigners(payer).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"transfer", payer.ScriptHash(), 1, other.ScriptHash())
}

func TestLedgerSetContentStore(t *testing.T) {
	e, c, _, storeHash := newLedgerEnv(t, 1)

	c.Invoke(t, stackitem.NewBuffer(storeHash.BytesBE()), "contentStore")

	c.InvokeFail(t, "invalid data point storage", "setContentStore", util.Uint160{0xff})

	// Deploying the same contract from another sender yields a new store.
	// The deploy tx carries a fixed 100 GAS system fee plus network fee, so
	// the default 100 GAS account funding is not enough.
	acc := c.NewAccount(t, 200_0000_0000)
	ctr := neotest.CompileFile(t, acc.ScriptHash(), contentstorePath,
		path.Join(contentstorePath, "config.yml"))
	// CompileFile caches the compiled contract by source path, keeping the
	// hash precalculated for the first sender; recompute it for acc.
	ctr = &neotest.Contract{
		Hash:     state.CreateContractHash(acc.ScriptHash(), ctr.NEF.Checksum, ctr.Manifest.Name),
		NEF:      ctr.NEF,
		Manifest: ctr.Manifest,
	}
	e.DeployContractBy(t, acc, ctr, nil)

	c.Invoke(t, stackitem.Null{}, "setContentStore", ctr.Hash)
	c.Invoke(t, stackitem.NewBuffer(ctr.Hash.BytesBE()), "contentStore")

	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed, "setContentStore", storeHash)
}

func TestLedgerReentrancy(t *testing.T) {
	e, c, ledgerHash, _ := newLedgerEnv(t, 1)

	ctr := neotest.CompileFile(t, e.CommitteeHash, reentrantPath,
		path.Join(reentrantPath, "config.yml"))
	e.DeployContract(t, ctr, []any{ledgerHash})

	payer := c.NewAccount(t)
	depositGAS(t, e, payer, ledgerHash, 1000, ctr.Hash)
	require.EqualValues(t, 1000, ledgerBalance(t, c, ctr.Hash))

	// The receiver calls back into the ledger from its GAS callback, the
	// whole withdrawal must fault.
	e.CommitteeInvoker(ctr.Hash).InvokeFail(t, "reentrant call into royalty ledger", "attack", 100)
	require.EqualValues(t, 1000, ledgerBalance(t, c, ctr.Hash))
	c.Invoke(t, 1000, "totalSupply")
}

func TestLedgerUpdate(t *testing.T) {
	_, c, _, _ := newLedgerEnv(t, 1)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"update", []byte{}, []byte{}, nil)

	c.Invoke(t, common.Version, "version")
}
