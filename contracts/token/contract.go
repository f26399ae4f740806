package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-token-contract/common"
	"github.com/nspcc-dev/neo-token-contract/contracts/token/tokenconst"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data == nil {
		runtime.Log("token contract deployed")
		return
	}

	args := data.([]any)
	if len(args) != 4 {
		panic("invalid deployment arguments")
	}

	initialize(storage.GetContext(), args[0].(interop.Hash160), args[1].(int),
		args[2].(string), args[3].(string))
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Initialize sets token administrator, decimal precision, name and symbol.
// It can be invoked by anyone, but only once: the first successful call
// fixes the configuration and any further call fails. Name and symbol are
// 1 to 32 characters of [A-Za-z0-9_].
//
// Initialization can also be done at deployment by passing
// [admin, decimal, name, symbol] array as deployment data.
func Initialize(admin interop.Hash160, decimal int, name, symbol string) {
	initialize(storage.GetContext(), admin, decimal, name, symbol)
}

// Mint increases balance of the specified account by amount. Transaction
// must be witnessed by the token administrator. Amount must not be negative.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()

	admin := storage.Get(ctx, tokenconst.AdminKey)
	if admin == nil {
		panic(tokenconst.ErrNotInitialized)
	}

	common.CheckAdminWitness(admin.(interop.Hash160))

	checkAccount(to)
	checkAmount(amount)

	key := balanceKey(to)

	balance := common.GetIntOrZero(ctx, key) + amount
	if balance > maxBalance() {
		panic(tokenconst.ErrOverflow)
	}

	common.PutIntOrDelete(ctx, key, balance)

	supply := common.GetIntOrZero(ctx, tokenconst.TotalSupplyKey)
	storage.Put(ctx, tokenconst.TotalSupplyKey, supply+amount)

	runtime.Log("assets were minted")
}

// Balance returns token balance of the specified account. Accounts that have
// never received tokens have zero balance.
func Balance(id interop.Hash160) int {
	if len(id) != interop.Hash160Len {
		return 0
	}

	return common.GetIntOrZero(storage.GetReadOnlyContext(), balanceKey(id))
}

// Transfer moves amount of tokens from one account to another. Transaction
// must be witnessed by the sender. Transfer fails without any changes if the
// sender has less than amount tokens.
func Transfer(from, to interop.Hash160, amount int) {
	checkAccount(from)
	checkAccount(to)

	common.CheckOwnerWitness(from)

	checkAmount(amount)

	ctx := storage.GetContext()

	fromKey := balanceKey(from)

	fromBalance := common.GetIntOrZero(ctx, fromKey)
	if fromBalance < amount {
		panic(tokenconst.ErrInsufficientBalance)
	}

	if from.Equals(to) {
		return
	}

	toKey := balanceKey(to)

	toBalance := common.GetIntOrZero(ctx, toKey) + amount
	if toBalance > maxBalance() {
		panic(tokenconst.ErrOverflow)
	}

	common.PutIntOrDelete(ctx, fromKey, fromBalance-amount)
	common.PutIntOrDelete(ctx, toKey, toBalance)
}

// Name returns token name set on initialization.
func Name() string {
	return getConfig(tokenconst.NameKey).(string)
}

// Symbol returns token symbol set on initialization.
func Symbol() string {
	return getConfig(tokenconst.SymbolKey).(string)
}

// Decimals returns decimal precision of token amounts set on initialization.
func Decimals() int {
	return getConfig(tokenconst.DecimalsKey).(int)
}

// TotalSupply returns the sum of all minted amounts. It always equals the sum
// of all balances.
func TotalSupply() int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), tokenconst.TotalSupplyKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func initialize(ctx storage.Context, admin interop.Hash160, decimal int, name, symbol string) {
	if storage.Get(ctx, tokenconst.AdminKey) != nil {
		panic(tokenconst.ErrAlreadyInitialized)
	}

	checkAccount(admin)

	if decimal < 0 || decimal > tokenconst.MaxDecimals {
		panic(tokenconst.ErrInvalidDecimals)
	}
	if !isValidName(name) {
		panic(tokenconst.ErrInvalidName)
	}
	if !isValidName(symbol) {
		panic(tokenconst.ErrInvalidSymbol)
	}

	storage.Put(ctx, tokenconst.AdminKey, admin)
	storage.Put(ctx, tokenconst.DecimalsKey, decimal)
	storage.Put(ctx, tokenconst.NameKey, name)
	storage.Put(ctx, tokenconst.SymbolKey, symbol)

	runtime.Log("token contract initialized")
}

func getConfig(key string) any {
	v := storage.Get(storage.GetReadOnlyContext(), key)
	if v == nil {
		panic(tokenconst.ErrNotInitialized)
	}

	return v
}

// maxBalance returns the largest balance an account can hold.
func maxBalance() int {
	return std.Atoi(tokenconst.MaxAmount, 10)
}

func balanceKey(acc interop.Hash160) []byte {
	return append([]byte{tokenconst.BalancePrefix}, acc...)
}

func checkAccount(acc interop.Hash160) {
	if len(acc) != interop.Hash160Len {
		panic(tokenconst.ErrInvalidAccount)
	}
}

func checkAmount(amount int) {
	if amount < 0 {
		panic(tokenconst.ErrNegativeAmount)
	}
}

func isValidName(s string) bool {
	if len(s) == 0 || len(s) > tokenconst.MaxNameLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}

	return true
}
