/*
Package contentstore implements ContentStore contract.

ContentStore is a permissionless, append-only, content-addressed blob
repository. Every stored blob (a data point) is keyed by a SHA-256 hash of
its bytes with the addressing scheme version appended, so addresses are
deterministic and a future scheme change cannot collide with the current
address space. A data point is write-once: once an address holds content,
it never changes and never goes away. The contract knows nothing about
royalties or payments; the RoyaltyLedger contract layers economics on top
of it.

# Contract notifications

Written notification. This notification is produced when a new data point
is persisted.

	Written:
	  - name: address
	    type: Hash256
*/
package contentstore

/*
Contract storage model.

# Summary
Key-value storage format:
 - d<interop.Hash256> -> []byte
   raw data point content by its address

# Addressing
An address is SHA-256 over content bytes followed by the one-byte protocol
version. Content that differs in a single bit gets an unrelated address.
*/
