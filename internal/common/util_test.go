package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_LengthAndVariety(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	require.Len(t, a, 32)
	require.Len(t, b, 32)
	require.NotEqual(t, a, b, "two 32-byte random buffers should differ")
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret-password")
	WipeByteArray(buf)
	for i, v := range buf {
		require.Zerof(t, v, "byte %d not wiped", i)
	}

	require.NotPanics(t, func() { WipeByteArray(nil) })
}
