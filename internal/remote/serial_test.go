package remote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSerialStdin(t *testing.T) {
	r, err := OpenSerial("-", 0)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = os.Stdin.Stat()
	assert.NoError(t, err)
}

func TestOpenSerialMissingPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyNOPE")
	_, err := OpenSerial(path, 9600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open serial "+path)
}
