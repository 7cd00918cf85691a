package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

func setupConfigStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NotNil(t, store)
	return store, dir
}

func TestConfigStore_SetGet(t *testing.T) {
	store, _ := setupConfigStore(t)

	require.NoError(t, store.Set(driven.KeyChunkSize, 1000))

	val, ok := store.Get(driven.KeyChunkSize)
	require.True(t, ok)
	assert.Equal(t, 1000, val)
}

func TestConfigStore_Get_MissingKey(t *testing.T) {
	store, _ := setupConfigStore(t)

	_, ok := store.Get("no.such.key")

	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("no.such.key"))
	assert.Equal(t, 0, store.GetInt("no.such.key"))
	assert.Equal(t, 0.0, store.GetFloat("no.such.key"))
	assert.False(t, store.GetBool("no.such.key"))
	assert.Nil(t, store.GetStringSlice("no.such.key"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store, _ := setupConfigStore(t)
	require.NoError(t, store.Set("key", "a string"))

	assert.Equal(t, 0, store.GetInt("key"))
	assert.Equal(t, 0.0, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
}

func TestConfigStore_GetFloat_WidensInteger(t *testing.T) {
	store, _ := setupConfigStore(t)
	require.NoError(t, store.Set(driven.KeyRateLimitRPS, 5))

	assert.Equal(t, 5.0, store.GetFloat(driven.KeyRateLimitRPS))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	store, dir := setupConfigStore(t)
	require.NoError(t, store.Set(driven.KeyEmbeddingModel, "all-minilm"))
	require.NoError(t, store.Set(driven.KeyRetrievalTopK, 5))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "all-minilm", reopened.GetString(driven.KeyEmbeddingModel))
	assert.Equal(t, 5, reopened.GetInt(driven.KeyRetrievalTopK))
}

func TestConfigStore_Load_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[chunk]
size = 800
overlap = 80

[chat]
boilerplate_prefixes = ["As stated above, "]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 800, store.GetInt(driven.KeyChunkSize))
	assert.Equal(t, 80, store.GetInt(driven.KeyChunkOverlap))
	assert.Equal(t, []string{"As stated above, "}, store.GetStringSlice(driven.KeyBoilerplatePrefixes))
}

func TestConfigStore_Load_MissingFileStartsEmpty(t *testing.T) {
	store, _ := setupConfigStore(t)

	assert.Equal(t, 0, store.GetInt(driven.KeyChunkSize))
}

func TestConfigStore_Path(t *testing.T) {
	store, dir := setupConfigStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
