package common

import "github.com/nspcc-dev/neo-go/pkg/interop/storage"

// GetIntOrZero reads integer value stored by the key. Missing value is
// treated as zero.
func GetIntOrZero(ctx storage.Context, key any) int {
	v := storage.Get(ctx, key)
	if v == nil {
		return 0
	}

	return v.(int)
}

// PutIntOrDelete stores integer value by the key. Zero value removes the key
// since missing values are read as zero.
func PutIntOrDelete(ctx storage.Context, key any, value int) {
	if value == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, value)
}
