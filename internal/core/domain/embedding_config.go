package domain

// EmbeddingConfigVersion is the current on-disk format version for
// persisted embedding configuration records.
const EmbeddingConfigVersion = 1

// EmbeddingConfig records the embedding-model configuration an index
// was built with. It is persisted next to the vector structure and both
// must match for a load to succeed: vectors produced under a different
// configuration are not comparable.
type EmbeddingConfig struct {
	// FormatVersion is the on-disk schema version.
	FormatVersion int `toml:"format_version"`

	// Model is the embedding model name, e.g. "text-embedding-3-small".
	Model string `toml:"model"`

	// Dimensions is the vector size produced by the model.
	Dimensions int `toml:"dimensions"`

	// Normalised reports whether stored vectors are L2-normalised.
	Normalised bool `toml:"normalised"`
}

// Compatible reports whether an index built under c can serve queries
// embedded under other.
func (c EmbeddingConfig) Compatible(other EmbeddingConfig) bool {
	return c.FormatVersion == other.FormatVersion &&
		c.Model == other.Model &&
		c.Dimensions == other.Dimensions &&
		c.Normalised == other.Normalised
}
