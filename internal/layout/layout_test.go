package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestV1(t *testing.T) {
	require.NoError(t, V1.Validate())
	require.Equal(t, 9, V1.Width())
	require.True(t, V1.IsStrict())

	l, err := Lookup("v1")
	require.NoError(t, err)
	require.Equal(t, V1, l)

	_, err = Lookup("v0")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	dup := V1
	dup.Columns.Price = dup.Columns.Identity
	require.Error(t, dup.Validate())

	negative := V1
	negative.Columns.Rank = -1
	require.Error(t, negative.Validate())

	lenient := V1
	lenient.Strict = boolPtr(false)
	require.False(t, lenient.IsStrict())

	unset := V1
	unset.Strict = nil
	require.True(t, unset.IsStrict())
}
