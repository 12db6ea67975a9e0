package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSize(t *testing.T) {
	size, err := ParsePageSize("1024x512")
	require.NoError(t, err)
	assert.Equal(t, NewSize(1024, 512), *size)

	size, err = ParsePageSize("")
	require.NoError(t, err)
	assert.Nil(t, size)

	for _, bad := range []string{"1024", "axb", "10x", "-5x10", "1x2x3"} {
		_, err := ParsePageSize(bad)
		assert.ErrorIs(t, err, ErrInvalidPageSize, bad)
	}

	_, err = ParsePageSize("65535x10")
	assert.ErrorIs(t, err, ErrPageSizeTooLarge)
	_, err = ParsePageSize("65534x65534")
	assert.NoError(t, err)
}

func TestNewSettings_ClampsSpacing(t *testing.T) {
	assert.Equal(t, MaxSpacing, NewSettings(MethodDistance, 5000, false, nil).Spacing)
	assert.Equal(t, 0, NewSettings(MethodDistance, -3, false, nil).Spacing)
	assert.Equal(t, 4, NewSettings(MethodDistance, 4, false, nil).Spacing)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("Area")
	require.NoError(t, err)
	assert.Equal(t, MethodArea, m)

	m, err = ParseMethod("distance")
	require.NoError(t, err)
	assert.Equal(t, MethodDistance, m)
	assert.Equal(t, "Distance", m.String())

	_, err = ParseMethod("skyline")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}
