// Package deployments reads the JSON registry of deployed DataPoint
// contracts maintained by the deployment tooling. The registry maps a
// network name to the pair of contracts serving it, the store and the
// ledger wrapping it. This package only ever reads the file.
package deployments

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Address is a util.Uint160 that marshals to and from the base58-check
// Neo address form used in the registry file.
type Address util.Uint160

// Uint160 converts Address to util.Uint160.
func (a Address) Uint160() util.Uint160 {
	return util.Uint160(a)
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return address.Uint160ToString(util.Uint160(a))
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := address.StringToUint160(s)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}
	*a = Address(u)
	return nil
}

// Deployment describes a single deployed contract.
type Deployment struct {
	ID         uuid.UUID    `json:"id"`
	Address    Address      `json:"address"`
	Deployer   Address      `json:"deployer"`
	TxHash     util.Uint256 `json:"txHash"`
	DeployedAt time.Time    `json:"deployedAt"`
}

// ConstructorArgs are the arguments the ledger contract was deployed with.
type ConstructorArgs struct {
	Owner        Address `json:"owner"`
	StoreAddress Address `json:"storeAddress"`
	RoyaltyRate  int64   `json:"royaltyRate"`
}

// LedgerDeployment is a ledger contract deployment together with its
// constructor arguments.
type LedgerDeployment struct {
	Deployment
	ConstructorArgs ConstructorArgs `json:"constructorArgs"`
}

// Record is a store/ledger contract pair deployed to one network.
type Record struct {
	Store  Deployment       `json:"store"`
	Ledger LedgerDeployment `json:"ledger"`
}

// Registry maps network name to its deployment record.
type Registry map[string]Record

// Load reads a registry from the file at the given path.
func Load(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse reads a registry from the given reader.
func Parse(r io.Reader) (Registry, error) {
	var reg Registry
	if err := json.NewDecoder(r).Decode(&reg); err != nil {
		return nil, fmt.Errorf("invalid deployment registry: %w", err)
	}
	return reg, nil
}

// Network returns the record for the named network.
func (r Registry) Network(name string) (Record, error) {
	rec, ok := r[name]
	if !ok {
		return Record{}, fmt.Errorf("network %q is not in the registry", name)
	}
	return rec, nil
}
