package counter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-token-contract/common"
)

const countKey = "count"

// Increment increments the counter and returns its new value.
func Increment() int {
	ctx := storage.GetContext()

	count := common.GetIntOrZero(ctx, countKey) + 1
	storage.Put(ctx, countKey, count)

	return count
}

// Decrement decrements the counter and returns its new value. Counter never
// goes below zero.
func Decrement() int {
	ctx := storage.GetContext()

	count := common.GetIntOrZero(ctx, countKey)
	if count > 0 {
		count--
	}

	storage.Put(ctx, countKey, count)

	return count
}

// Reset sets the counter to zero.
func Reset() {
	storage.Put(storage.GetContext(), countKey, 0)
}

// GetCount returns current value of the counter.
func GetCount() int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), countKey)
}
