package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gobalance/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weaponsJSON = `[
  {"name": "Dagger", "slot": "one-hand", "baseValue": 1500, "stats": {"damage": 4}},
  {"name": "Greatsword", "slot": "two-hand", "baseValue": 9000, "stats": {"damage": 14, "armor": 1}},
  {"name": "Bent Stick", "slot": "one-hand", "baseValue": 10, "stats": {"damage": null}}
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReader_LoadsAndFlattens(t *testing.T) {
	path := writeFile(t, "weapons.json", weaponsJSON)

	d, err := NewReader().Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "weapons", d.Name)
	assert.Equal(t, path, d.Source)
	assert.False(t, d.Digest.IsEmpty())
	require.Equal(t, 3, d.Len())

	dmg, ok := d.Rows[1].Float("stats.damage")
	require.True(t, ok)
	assert.Equal(t, 14.0, dmg)

	// null and missing leaves are both absent
	assert.False(t, d.Rows[2].Has("stats.damage"))
	assert.False(t, d.Rows[0].Has("stats.armor"))
	assert.Equal(t, "Bent Stick", d.Rows[2].Get("name").String())
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader().Read(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestReader_MalformedJSON(t *testing.T) {
	path := writeFile(t, "broken.json", `[{"name": "Dagger",`)
	_, err := NewReader().Read(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestReader_WrongShape(t *testing.T) {
	for name, body := range map[string]string{
		"object.json":  `{"name": "Dagger"}`,
		"scalars.json": `[1, 2, 3]`,
		"mixed.json":   `[{"name": "Dagger"}, "oops"]`,
	} {
		path := writeFile(t, name, body)
		_, err := NewReader().Read(context.Background(), path)
		assert.ErrorIs(t, err, core.ErrDataUnavailable, name)
	}
}

func TestReader_DataPath(t *testing.T) {
	path := writeFile(t, "wrapped.json", `{"version": 2, "items": `+weaponsJSON+`}`)

	d, err := NewReaderAt("items").Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, err = NewReaderAt("weapons").Read(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestReader_EmptyArray(t *testing.T) {
	path := writeFile(t, "empty.json", `[]`)
	d, err := NewReader().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Columns)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReader().Read(ctx, writeFile(t, "w.json", weaponsJSON))
	assert.ErrorIs(t, err, context.Canceled)
}
