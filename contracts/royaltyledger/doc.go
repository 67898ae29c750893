/*
Package royaltyledger implements RoyaltyLedger contract.

RoyaltyLedger wraps exactly one ContentStore contract and meters access to
it. The first registration of some content forwards the write to the store,
measures the execution cost of that write and freezes it in a royalty
record attributed to a publisher. Every later registration of the same
content is a paid access: the frozen cost multiplied by the global royalty
rate is taken from the accessor's deposited balance and split 9:1 between
the publisher and the contract owner. Publishers reassign or waive their
attribution themselves; the owner administers the rate, the store pointer
and record repairs.

Deposits arrive as plain GAS transfers to the contract (OnNEP17Payment) and
share one balance sheet with earned royalties; CollectRoyalties pays a
balance out as GAS. The balance is decremented before the payout transfer
and the ledger rejects any mutating call made while a payout is in flight,
so a malicious receiver cannot re-enter the ledger from its GAS callback.

# Contract notifications

Deposit notification. Produced when GAS arrives at the contract.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: receiver
	    type: Hash160

Registered notification. Produced when a new royalty record is created.

	Registered:
	  - name: address
	    type: Hash256
	  - name: publisher
	    type: Hash160

RoyaltiesPaid notification. Produced when an accessor pays for a registered
data point.

	RoyaltiesPaid:
	  - name: address
	    type: Hash256
	  - name: payer
	    type: Hash160
	  - name: amount
	    type: Integer

RoyaltiesCollected notification. Produced when a balance is paid out as GAS.

	RoyaltiesCollected:
	  - name: payer
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: to
	    type: Hash160

PublisherUpdated notification. Produced when a publisher reassigns or
waives a record.

	PublisherUpdated:
	  - name: address
	    type: Hash256
	  - name: publisher
	    type: Hash160

RoyaltyRecordUpdated notification. Produced on administrative record repair.

	RoyaltyRecordUpdated:
	  - name: address
	    type: Hash256
	  - name: publisher
	    type: Hash160
	  - name: resourceCost
	    type: Integer

Transfer notification. Produced on administrative balance moves.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package royaltyledger

/*
Contract storage model.

# Summary
Key-value storage format:
 - r<interop.Hash256> -> std.Serialize(RoyaltyRecord)
   royalty record of a data point: frozen resource cost and publisher
 - b<interop.Hash160> -> int
   withdrawable balance sheet of depositors, publishers and the owner
 - 'contractOwner' -> interop.Hash160
   the designated administrator
 - 'contentStore' -> interop.Hash160
   the wrapped ContentStore contract
 - 'royaltyRate' -> int
   global cost-per-resource-unit multiplier
 - 'totalSupply' -> int
   sum of all balances (deposits received minus withdrawals paid)
 - 'transferLock' -> bool
   present only while an outgoing GAS transfer is in flight

# Accounting
Royalty payments move value between balances under the same total supply;
only deposits increase it and only collections decrease it.
*/
