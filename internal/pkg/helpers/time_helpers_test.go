package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, ParseDuration("10m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}

func TestOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, "", FormatOptionalDate(d))

	d, err = ParseOptionalDate(" 2003-04-05 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2003-04-05", FormatOptionalDate(d))

	_, err = ParseOptionalDate("05/04/2003")
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 0.0, Round2(0))
}
