package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	require.Equal(t, "sitegen v1.2.3 (commit unknown, built unknown)", String())
}
