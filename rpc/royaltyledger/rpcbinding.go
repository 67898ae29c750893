// Package royaltyledger contains RPC wrappers for DataPoint RoyaltyLedger contract.
package royaltyledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// RoyaltyRecord is a contract-specific royaltyledger.RoyaltyRecord type used by its methods.
type RoyaltyRecord struct {
	ResourceCost *big.Int
	Publisher    util.Uint160
}

// DepositEvent represents "Deposit" event emitted by the contract.
type DepositEvent struct {
	From     util.Uint160
	Amount   *big.Int
	Receiver util.Uint160
}

// RegisteredEvent represents "Registered" event emitted by the contract.
type RegisteredEvent struct {
	Address   util.Uint256
	Publisher util.Uint160
}

// RoyaltiesPaidEvent represents "RoyaltiesPaid" event emitted by the contract.
type RoyaltiesPaidEvent struct {
	Address util.Uint256
	Payer   util.Uint160
	Amount  *big.Int
}

// RoyaltiesCollectedEvent represents "RoyaltiesCollected" event emitted by the contract.
type RoyaltiesCollectedEvent struct {
	Payer  util.Uint160
	Amount *big.Int
	To     util.Uint160
}

// PublisherUpdatedEvent represents "PublisherUpdated" event emitted by the contract.
type PublisherUpdatedEvent struct {
	Address   util.Uint256
	Publisher util.Uint160
}

// RoyaltyRecordUpdatedEvent represents "RoyaltyRecordUpdated" event emitted by the contract.
type RoyaltyRecordUpdatedEvent struct {
	Address      util.Uint256
	Publisher    util.Uint160
	ResourceCost *big.Int
}

// TransferEvent represents "Transfer" event emitted by the contract.
type TransferEvent struct {
	From   util.Uint160
	To     util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetRoyalty invokes `getRoyalty` method of contract.
func (c *ContractReader) GetRoyalty(addr util.Uint256) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getRoyalty", addr))
}

// GetRoyaltyRecord invokes `getRoyaltyRecord` method of contract.
func (c *ContractReader) GetRoyaltyRecord(addr util.Uint256) (*RoyaltyRecord, error) {
	return itemToRoyaltyRecord(unwrap.Item(c.invoker.Call(c.hash, "getRoyaltyRecord", addr)))
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", account))
}

// TotalSupply invokes `totalSupply` method of contract.
func (c *ContractReader) TotalSupply() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSupply"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// ContentStore invokes `contentStore` method of contract.
func (c *ContractReader) ContentStore() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "contentStore"))
}

// RoyaltyRate invokes `royaltyRate` method of contract.
func (c *ContractReader) RoyaltyRate() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "royaltyRate"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Register creates a transaction invoking `register` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Register(data []byte, publisher util.Uint160, payer util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "register", data, publisher, payer)
}

// RegisterTransaction creates a transaction invoking `register` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterTransaction(data []byte, publisher util.Uint160, payer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "register", data, publisher, payer)
}

// RegisterUnsigned creates a transaction invoking `register` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUnsigned(data []byte, publisher util.Uint160, payer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "register", nil, data, publisher, payer)
}

// UpdatePublisher creates a transaction invoking `updatePublisher` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdatePublisher(addr util.Uint256, newPublisher util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updatePublisher", addr, newPublisher)
}

// UpdatePublisherTransaction creates a transaction invoking `updatePublisher` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdatePublisherTransaction(addr util.Uint256, newPublisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updatePublisher", addr, newPublisher)
}

// UpdatePublisherUnsigned creates a transaction invoking `updatePublisher` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdatePublisherUnsigned(addr util.Uint256, newPublisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updatePublisher", nil, addr, newPublisher)
}

// CollectRoyalties creates a transaction invoking `collectRoyalties` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CollectRoyalties(payer util.Uint160, amount *big.Int, to util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "collectRoyalties", payer, amount, to)
}

// CollectRoyaltiesTransaction creates a transaction invoking `collectRoyalties` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CollectRoyaltiesTransaction(payer util.Uint160, amount *big.Int, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "collectRoyalties", payer, amount, to)
}

// CollectRoyaltiesUnsigned creates a transaction invoking `collectRoyalties` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CollectRoyaltiesUnsigned(payer util.Uint160, amount *big.Int, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "collectRoyalties", nil, payer, amount, to)
}

// SetContentStore creates a transaction invoking `setContentStore` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetContentStore(store util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setContentStore", store)
}

// SetContentStoreTransaction creates a transaction invoking `setContentStore` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetContentStoreTransaction(store util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setContentStore", store)
}

// SetContentStoreUnsigned creates a transaction invoking `setContentStore` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetContentStoreUnsigned(store util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setContentStore", nil, store)
}

// SetRoyaltyRate creates a transaction invoking `setRoyaltyRate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetRoyaltyRate(rate *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setRoyaltyRate", rate)
}

// SetRoyaltyRateTransaction creates a transaction invoking `setRoyaltyRate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetRoyaltyRateTransaction(rate *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setRoyaltyRate", rate)
}

// SetRoyaltyRateUnsigned creates a transaction invoking `setRoyaltyRate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetRoyaltyRateUnsigned(rate *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setRoyaltyRate", nil, rate)
}

// UpdateRoyaltyRecord creates a transaction invoking `updateRoyaltyRecord` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateRoyaltyRecord(addr util.Uint256, resourceCost *big.Int, publisher util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateRoyaltyRecord", addr, resourceCost, publisher)
}

// UpdateRoyaltyRecordTransaction creates a transaction invoking `updateRoyaltyRecord` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateRoyaltyRecordTransaction(addr util.Uint256, resourceCost *big.Int, publisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateRoyaltyRecord", addr, resourceCost, publisher)
}

// UpdateRoyaltyRecordUnsigned creates a transaction invoking `updateRoyaltyRecord` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateRoyaltyRecordUnsigned(addr util.Uint256, resourceCost *big.Int, publisher util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateRoyaltyRecord", nil, addr, resourceCost, publisher)
}

// Transfer creates a transaction invoking `transfer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Transfer(from util.Uint160, amount *big.Int, to util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transfer", from, amount, to)
}

// TransferTransaction creates a transaction invoking `transfer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferTransaction(from util.Uint160, amount *big.Int, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transfer", from, amount, to)
}

// TransferUnsigned creates a transaction invoking `transfer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferUnsigned(from util.Uint160, amount *big.Int, to util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transfer", nil, from, amount, to)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToRoyaltyRecord converts stack item into *RoyaltyRecord.
func itemToRoyaltyRecord(item stackitem.Item, err error) (*RoyaltyRecord, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RoyaltyRecord)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RoyaltyRecord from the given stack item
// or returns an error if it's not possible to do to due to type mismatch.
func (res *RoyaltyRecord) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ResourceCost, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ResourceCost: %w", err)
	}

	index++
	res.Publisher, err = func(item stackitem.Item) (util.Uint160, error) {
		// An empty publisher means royalties for the data point are waived.
		if _, ok := item.(stackitem.Null); ok {
			return util.Uint160{}, nil
		}
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		if len(b) == 0 {
			return util.Uint160{}, nil
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Publisher: %w", err)
	}

	return nil
}
