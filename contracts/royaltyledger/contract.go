package royaltyledger

import (
	"github.com/datapointlabs/datapoint-contract/common"
	"github.com/datapointlabs/datapoint-contract/contracts/royaltyledger/royaltyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// RoyaltyRecord holds economic metadata of a single data point. ResourceCost
// is the execution cost measured for the original store write and never
// changes after creation (except by administrative repair). An empty
// Publisher means royalties for the data point are waived.
type RoyaltyRecord struct {
	ResourceCost int
	Publisher    interop.Hash160
}

const (
	recordKeyPrefix  = 'r'
	balanceKeyPrefix = 'b'

	contentStoreKey = "contentStore"
	royaltyRateKey  = "royaltyRate"
	totalSupplyKey  = "totalSupply"

	// transferLockKey marks an outstanding outgoing GAS transfer. While it
	// is set, every ledger-mutating method refuses to run.
	transferLockKey = "transferLock"

	// maxResourceCost is stored instead of the measured cost when the VM
	// runs with an unlimited gas budget (fee estimation), where GasLeft
	// reports -1 and the measured delta collapses to zero. It is the
	// widest value a cost can take, so the estimated record is never
	// smaller than the real one and the estimated fee never undershoots.
	maxResourceCost = 0x7FFF_FFFF_FFFF_FFFF
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)
	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	owner := args[0].(interop.Hash160)
	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	store := args[1].(interop.Hash160)
	requireContentStore(store)

	rate := args[2].(int)
	if rate < 0 || rate > royaltyconst.MaxRoyaltyRate {
		panic("royalty rate is out of range")
	}

	storage.Put(ctx, common.OwnerKey, owner)
	storage.Put(ctx, contentStoreKey, store)
	storage.Put(ctx, royaltyRateKey, rate)

	runtime.Log("royalty ledger contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	common.CheckOwnerWitness(storage.GetReadOnlyContext())

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("royalty ledger contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Incoming GAS funds the withdrawable balance of the sender or, if data
// carries a Hash160, of that receiver instead. Paid registrations spend
// from this balance.
//
// It produces Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	checkTransferLock(ctx)

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic("only GAS deposits are accepted")
	}
	if amount <= 0 {
		panic("invalid deposit amount")
	}

	rcv := from
	if data != nil {
		hint := data.(interop.Hash160)
		switch len(hint) {
		case interop.Hash160Len:
			rcv = hint
		case 0:
		default:
			panic("invalid deposit receiver, expected Hash160")
		}
	}

	credit(ctx, rcv, amount)
	storage.Put(ctx, totalSupplyKey, getSupply(ctx)+amount)

	runtime.Notify("Deposit", from, amount, rcv)
}

// Register is the central ledger operation. For content unknown to the
// ledger it forwards the write to the content store, measures the execution
// cost of that write and freezes it in a new royalty record attributed to
// publisher (which may be empty to waive royalties up front). Content
// already sitting in the store without a record gets a record with zero
// cost: the original write was never measured, so access stays free until
// an administrative repair. No payment is processed on this path.
//
// For content that already has a record, Register is the pay-to-access
// gate: the current royalty (see GetRoyalty) is debited from payer's
// deposited balance, split between the record's publisher and the contract
// owner, and no store write happens. Payer must witness the call or be the
// calling contract. Any deposit beyond the exact royalty stays withdrawable
// by the payer.
//
// It produces Registered or RoyaltiesPaid notification.
func Register(data []byte, publisher, payer interop.Hash160) interop.Hash256 {
	ctx := storage.GetContext()
	checkTransferLock(ctx)

	publisher = normalizePublisher(publisher)

	store := contentStore(ctx)
	addr := contract.Call(store, "calculateAddress", contract.ReadOnly, data).(interop.Hash256)

	rec, ok := getRecord(ctx, addr)
	if !ok {
		rec = RoyaltyRecord{ResourceCost: 0, Publisher: publisher}

		size := contract.Call(store, "size", contract.ReadOnly, addr).(int)
		if size == 0 {
			gasBefore := runtime.GasLeft()
			contract.Call(store, "write", contract.All, data)
			if gasBefore < 0 {
				rec.ResourceCost = maxResourceCost
			} else {
				rec.ResourceCost = gasBefore - runtime.GasLeft()
			}
		}
		// Pre-seeded content keeps zero cost: the write that bypassed the
		// ledger was never measured, see UpdateRoyaltyRecord for repair.

		putRecord(ctx, addr, rec)
		runtime.Notify("Registered", addr, publisher)

		return addr
	}

	royalty := royaltyOf(ctx, rec)
	if royalty > 0 {
		if !isUsableAddress(payer) {
			panic("invalid payer")
		}

		debit(ctx, payer, royalty, "insufficient royalty payment: "+std.Itoa(royalty, 10)+" required")

		daoShare := royalty / royaltyconst.DAOShareDivisor
		credit(ctx, rec.Publisher, royalty-daoShare)
		credit(ctx, common.ContractOwner(ctx), daoShare)

		runtime.Notify("RoyaltiesPaid", addr, payer, royalty)
	}

	return addr
}

// GetRoyalty returns the amount currently charged for accessing the data
// point: the frozen resource cost multiplied by the current royalty rate.
// It is zero when no record exists, when the record's publisher waived
// royalties, and for records created after a direct store write.
func GetRoyalty(addr interop.Hash256) int {
	checkDataPointAddress(addr)

	ctx := storage.GetReadOnlyContext()
	rec, ok := getRecord(ctx, addr)
	if !ok {
		return 0
	}

	return royaltyOf(ctx, rec)
}

// GetRoyaltyRecord returns the stored royalty record for the given data
// point address. The returned record is zero-valued if there is none.
func GetRoyaltyRecord(addr interop.Hash256) RoyaltyRecord {
	checkDataPointAddress(addr)

	rec, _ := getRecord(storage.GetReadOnlyContext(), addr)
	return rec
}

// UpdatePublisher reassigns the publisher of a data point. Only the
// currently recorded publisher may do this. Passing an empty (or zero)
// publisher permanently waives future royalties for the data point: a
// waived record is unclaimable, by anyone, forever.
//
// It produces PublisherUpdated notification.
func UpdatePublisher(addr interop.Hash256, newPublisher interop.Hash160) {
	checkDataPointAddress(addr)

	ctx := storage.GetContext()
	checkTransferLock(ctx)

	newPublisher = normalizePublisher(newPublisher)

	rec, ok := getRecord(ctx, addr)
	if !ok {
		panic("royalty record not found")
	}
	if len(rec.Publisher) != interop.Hash160Len {
		panic("invalid publisher: royalties were waived")
	}
	if !runtime.CheckWitness(rec.Publisher) {
		panic("invalid publisher: expected " + std.Base64Encode(rec.Publisher))
	}

	rec.Publisher = newPublisher
	putRecord(ctx, addr, rec)

	runtime.Notify("PublisherUpdated", addr, newPublisher)
}

// CollectRoyalties withdraws amount from payer's ledger balance and sends
// it to the given account as GAS. Payer must witness the call or be the
// calling contract. The balance is decremented before the transfer is
// attempted and the ledger is locked for the duration of the transfer, so
// a receiver calling back into the ledger from its GAS callback faults the
// whole transaction.
//
// It produces RoyaltiesCollected notification.
func CollectRoyalties(payer interop.Hash160, amount int, to interop.Hash160) {
	ctx := storage.GetContext()
	checkTransferLock(ctx)

	if len(to) != interop.Hash160Len {
		panic("invalid receiver")
	}
	if amount <= 0 {
		panic("non positive amount")
	}
	if !isUsableAddress(payer) {
		panic("invalid payer")
	}

	debit(ctx, payer, amount, "insufficient balance")
	storage.Put(ctx, totalSupplyKey, getSupply(ctx)-amount)

	storage.Put(ctx, transferLockKey, true)
	if !gas.Transfer(runtime.GetExecutingScriptHash(), to, amount, nil) {
		panic("failed to transfer GAS, aborting")
	}
	storage.Delete(ctx, transferLockKey)

	runtime.Notify("RoyaltiesCollected", payer, amount, to)
}

// BalanceOf returns the withdrawable ledger balance of the given account.
func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}

	return balanceOf(storage.GetReadOnlyContext(), account)
}

// TotalSupply returns the sum of all ledger balances. It equals total
// deposits received minus total withdrawals paid out; royalty payments move
// value between balances and never change it.
func TotalSupply() int {
	return getSupply(storage.GetReadOnlyContext())
}

// SetContentStore points the ledger at another ContentStore contract. It
// can be invoked only by the contract owner. The candidate is probed with
// a side-effect-free calculateAddress call and rejected unless it behaves
// like a content store.
func SetContentStore(store interop.Hash160) {
	ctx := storage.GetContext()
	checkTransferLock(ctx)
	common.CheckOwnerWitness(ctx)

	requireContentStore(store)

	storage.Put(ctx, contentStoreKey, store)
	runtime.Log("content store has been updated")
}

// SetRoyaltyRate replaces the global cost-per-resource-unit multiplier. It
// can be invoked only by the contract owner. The new rate applies to every
// subsequent access of every data point; frozen resource costs are not
// touched.
func SetRoyaltyRate(rate int) {
	ctx := storage.GetContext()
	checkTransferLock(ctx)
	common.CheckOwnerWitness(ctx)

	if rate < 0 || rate > royaltyconst.MaxRoyaltyRate {
		panic("royalty rate is out of range")
	}

	storage.Put(ctx, royaltyRateKey, rate)
	runtime.Log("royalty rate has been updated")
}

// UpdateRoyaltyRecord overrides an existing royalty record. It can be
// invoked only by the contract owner and exists to repair records, e.g.
// after a direct store write zeroed the cost of a data point. It cannot
// create records: registration is the only path that does.
//
// It produces RoyaltyRecordUpdated notification.
func UpdateRoyaltyRecord(addr interop.Hash256, resourceCost int, publisher interop.Hash160) {
	checkDataPointAddress(addr)

	ctx := storage.GetContext()
	checkTransferLock(ctx)
	common.CheckOwnerWitness(ctx)

	if resourceCost < 0 {
		panic("invalid resource cost")
	}
	publisher = normalizePublisher(publisher)

	if _, ok := getRecord(ctx, addr); !ok {
		panic("royalty record not found")
	}

	putRecord(ctx, addr, RoyaltyRecord{ResourceCost: resourceCost, Publisher: publisher})

	runtime.Notify("RoyaltyRecordUpdated", addr, publisher, resourceCost)
}

// Transfer moves a ledger balance between accounts without a GAS payout.
// It can be invoked only by the contract owner and is an emergency
// facility, distinct from CollectRoyalties which operates on the caller's
// own balance.
//
// It produces Transfer notification.
func Transfer(from interop.Hash160, amount int, to interop.Hash160) {
	ctx := storage.GetContext()
	checkTransferLock(ctx)
	common.CheckOwnerWitness(ctx)

	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount <= 0 {
		panic("non positive amount")
	}

	debit(ctx, from, amount, "insufficient balance")
	credit(ctx, to, amount)

	runtime.Notify("Transfer", from, to, amount)
}

// Owner returns the contract administrator address.
func Owner() interop.Hash160 {
	return common.ContractOwner(storage.GetReadOnlyContext())
}

// ContentStore returns the address of the content store the ledger
// currently wraps.
func ContentStore() interop.Hash160 {
	return contentStore(storage.GetReadOnlyContext())
}

// RoyaltyRate returns the current global cost-per-resource-unit multiplier.
func RoyaltyRate() int {
	return royaltyRate(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func royaltyOf(ctx storage.Context, rec RoyaltyRecord) int {
	if len(rec.Publisher) != interop.Hash160Len {
		return 0
	}

	return rec.ResourceCost * royaltyRate(ctx)
}

func getRecord(ctx storage.Context, addr interop.Hash256) (RoyaltyRecord, bool) {
	data := storage.Get(ctx, append([]byte{recordKeyPrefix}, addr...))
	if data == nil {
		return RoyaltyRecord{}, false
	}

	return std.Deserialize(data.([]byte)).(RoyaltyRecord), true
}

func putRecord(ctx storage.Context, addr interop.Hash256, rec RoyaltyRecord) {
	common.SetSerialized(ctx, append([]byte{recordKeyPrefix}, addr...), rec)
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	data := storage.Get(ctx, append([]byte{balanceKeyPrefix}, account...))
	if data == nil {
		return 0
	}

	return data.(int)
}

func credit(ctx storage.Context, account interop.Hash160, amount int) {
	key := append([]byte{balanceKeyPrefix}, account...)
	storage.Put(ctx, key, balanceOf(ctx, account)+amount)
}

func debit(ctx storage.Context, account interop.Hash160, amount int, failMsg string) {
	balance := balanceOf(ctx, account)
	if balance < amount {
		panic(failMsg)
	}

	key := append([]byte{balanceKeyPrefix}, account...)
	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}
}

func getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, totalSupplyKey)
	if supply == nil {
		return 0
	}

	return supply.(int)
}

func contentStore(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, contentStoreKey).(interop.Hash160)
}

func royaltyRate(ctx storage.Context) int {
	return storage.Get(ctx, royaltyRateKey).(int)
}

func checkTransferLock(ctx storage.Context) {
	if storage.Get(ctx, transferLockKey) != nil {
		panic("reentrant call into royalty ledger")
	}
}

func checkDataPointAddress(addr interop.Hash256) {
	if len(addr) != interop.Hash256Len {
		panic("invalid data point address")
	}
}

// normalizePublisher maps both the empty and the all-zero address to the
// canonical "no publisher" value and rejects everything that is not a
// Hash160.
func normalizePublisher(publisher interop.Hash160) interop.Hash160 {
	if len(publisher) == 0 {
		return nil
	}
	if len(publisher) != interop.Hash160Len {
		panic("invalid publisher")
	}
	for i := 0; i < len(publisher); i++ {
		if publisher[i] != 0 {
			return publisher
		}
	}

	return nil
}

// isUsableAddress checks if the account is either witnessed by the
// transaction or is the calling contract.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}

func requireContentStore(store interop.Hash160) {
	if len(store) != interop.Hash160Len {
		panic("invalid data point storage")
	}
	if management.GetContract(store) == nil {
		panic("invalid data point storage")
	}

	probe := contract.Call(store, "calculateAddress", contract.ReadOnly, []byte{0}).(interop.Hash256)
	if len(probe) != interop.Hash256Len {
		panic("invalid data point storage")
	}
}
