package postprocessors

import (
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("cleaner", buildCleaner)
	r.Register("chunker", buildChunker)
}

// DefaultPipeline builds the standard cleaner-then-chunker pipeline
// with the given chunking parameters.
func DefaultPipeline(chunkSize, overlap int) *Pipeline {
	return NewPipeline(
		NewCleaner(),
		chunker.New(
			chunker.WithChunkSize(chunkSize),
			chunker.WithOverlap(overlap),
		),
	)
}

// buildCleaner creates a whitespace cleaner. It takes no config.
func buildCleaner(_ map[string]any) (driven.PostProcessor, error) {
	return NewCleaner(), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per passage (default: 1000)
//   - overlap (int): Overlapping characters between passages (default: 100)
//   - boundary_window (int): Natural-boundary search window
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
		if window := getIntFromConfig(cfg, "boundary_window"); window > 0 {
			opts = append(opts, chunker.WithBoundaryWindow(window))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
