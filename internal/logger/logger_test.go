package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToRotatingFile(t *testing.T) {
	dir := t.TempDir()

	lg := New("release", Options{Dir: dir, Filename: "test.log"})
	lg.Info("order placed")
	require.NoError(t, lg.Sync())

	b, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"order placed"`)
}

func TestL_NopBeforeInit(t *testing.T) {
	assert.NotNil(t, L())
}
