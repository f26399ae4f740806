package common_test

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-token-contract/common"
	"github.com/stretchr/testify/require"
)

// VERSION file and contract version constant must be updated together.
func TestVersionFile(t *testing.T) {
	data, err := os.ReadFile("../VERSION")
	require.NoError(t, err)

	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(string(data)), "v"), ".")
	require.Len(t, parts, 3)

	v := 0
	for i := range parts {
		n, err := strconv.Atoi(parts[i])
		require.NoError(t, err)
		require.Less(t, n, 1_000)
		v = v*1_000 + n
	}

	require.Equal(t, common.Version, v)
	require.Less(t, common.PrevVersion, common.Version)
}

func TestAppendVersion(t *testing.T) {
	require.Equal(t, []any{common.Version}, common.AppendVersion(nil))
	require.Equal(t, []any{"x", common.Version}, common.AppendVersion([]any{"x"}))
}
