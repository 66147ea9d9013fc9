package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gobalance/adapters/excel"
	"gobalance/adapters/jsonfile"
	"gobalance/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	r, err := ForPath("assets/json/weapons.json", "")
	require.NoError(t, err)
	assert.IsType(t, &jsonfile.Reader{}, r)

	for _, p := range []string{"items.xlsx", "ITEMS.CSV"} {
		r, err = ForPath(p, "")
		require.NoError(t, err, p)
		assert.IsType(t, &excel.DataReader{}, r, p)
	}

	_, err = ForPath("items.yaml", "")
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "spells.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"spells": [{"name": "Spark", "cost": 5}]}`), 0o644))
	csvPath := filepath.Join(dir, "spells.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,cost\nSpark,5\nFlare,9\n"), 0o644))

	d, err := Open(context.Background(), jsonPath, "spells")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	d, err = Factory("").Read(context.Background(), csvPath)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}
