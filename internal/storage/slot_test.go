package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDriver(t *testing.T) {
	for _, name := range []string{"memory", "redis", "sqlite", "postgres", "s3"} {
		d, err := ParseDriver(name)
		require.NoError(t, err)
		assert.Equal(t, Driver(name), d)
	}

	_, err := ParseDriver("mongo")
	assert.Error(t, err)
}
