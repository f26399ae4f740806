package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
)

// parseAmount converts decimal string into the integer token amount scaled
// by the given precision.
func parseAmount(s string, decimals uint32) (*big.Int, error) {
	if decimals > maxPrecision {
		return nil, fmt.Errorf("unsupported precision %d", decimals)
	}

	v, err := fixedn.FromString(s, int(decimals))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	return v, nil
}

func formatAmount(v *big.Int, decimals uint32) string {
	if decimals > maxPrecision {
		return v.String()
	}

	return fixedn.ToString(v, int(decimals))
}

// maxPrecision is the largest precision supported by decimal conversions.
const maxPrecision = 1 << 10
