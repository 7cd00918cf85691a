package cli

import (
	"fmt"
	"os"

	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/config/file"
	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/embedding/ollama"
	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/embedding/openai"
	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/index/store"
	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/llm/ollama"
	"github.com/intellidoc-labs/intellidoc-cli/internal/adapters/driven/loader/pdf"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/services"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
	"github.com/intellidoc-labs/intellidoc-cli/internal/postprocessors"
	"github.com/intellidoc-labs/intellidoc-cli/internal/ratelimit"
)

// Environment variables read at startup.
const (
	envOpenAIKey = "OPENAI_API_KEY"
	envGroqKey   = "GROQ_API_KEY"
)

// initServices builds the adapter stack and wires the core services.
// A missing GROQ_API_KEY disables chat but leaves indexing and search
// working.
func initServices() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	indexStore, err := store.NewStore(cfg.GetString(driven.KeyIndexDir))
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}

	loader := pdf.New()

	library, err := services.NewLibraryService(cfg.GetString(driven.KeyDataDir), loader, indexStore, "")
	if err != nil {
		return fmt.Errorf("opening document library: %w", err)
	}
	libraryService = library

	rl := ratelimit.Config{
		RequestsPerSecond: cfg.GetFloat(driven.KeyRateLimitRPS),
		BurstSize:         cfg.GetInt(driven.KeyRateLimitBurst),
	}

	embedder, err := buildEmbedder(cfg, rl)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	indexerService = services.NewIndexerService(
		loader,
		pipeline,
		embedder,
		indexStore,
	)

	retriever := services.NewRetrieverService(embedder, indexStore,
		services.WithDefaultTopK(cfg.GetInt(driven.KeyRetrievalTopK)),
	)
	retrieverService = retriever

	llm, err := buildLLM(cfg, rl)
	if err != nil {
		return err
	}
	if llm != nil {
		chatService = services.NewChatService(retriever, llm,
			services.WithPromptStore(prompts),
			services.WithContextPassages(cfg.GetInt(driven.KeyRetrievalTopK)),
			services.WithMaxTokens(cfg.GetInt(driven.KeyLLMMaxTokens)),
			services.WithTemperature(cfg.GetFloat(driven.KeyLLMTemperature)),
			services.WithBoilerplatePrefixes(cfg.GetStringSlice(driven.KeyBoilerplatePrefixes)),
		)
	}

	return nil
}

// buildPipeline constructs the document processing pipeline from
// configuration through the processor registry. The processor list
// defaults to cleaner-then-chunker; missing chunk keys keep the
// chunker defaults.
func buildPipeline(cfg driven.ConfigStore) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	names := cfg.GetStringSlice(driven.KeyChunkProcessors)
	if len(names) == 0 {
		names = []string{"cleaner", "chunker"}
	}

	chunkCfg := map[string]any{}
	if size := cfg.GetInt(driven.KeyChunkSize); size > 0 {
		chunkCfg["chunk_size"] = size
	}
	if _, ok := cfg.Get(driven.KeyChunkOverlap); ok {
		chunkCfg["overlap"] = cfg.GetInt(driven.KeyChunkOverlap)
	}

	pipeline := postprocessors.NewPipeline()
	for _, name := range names {
		var pcfg map[string]any
		if name == "chunker" {
			pcfg = chunkCfg
		}
		processor, err := registry.Build(name, pcfg)
		if err != nil {
			return nil, fmt.Errorf("building processor pipeline: %w", err)
		}
		pipeline.Add(processor)
	}
	return pipeline, nil
}

// buildLLM picks the chat backend. An explicit provider in the config
// wins; otherwise Groq is used when its key is present. A nil service
// with a nil error means no backend is available and chat stays
// disabled.
func buildLLM(cfg driven.ConfigStore, rl ratelimit.Config) (driven.LLMService, error) {
	provider := cfg.GetString(driven.KeyLLMProvider)
	groqKey := os.Getenv(envGroqKey)

	if provider == "" {
		if groqKey == "" {
			return nil, nil
		}
		provider = "groq"
	}

	switch provider {
	case "groq":
		svc, err := groq.NewLLMService(groq.Config{
			APIKey:    groqKey,
			BaseURL:   cfg.GetString(driven.KeyLLMBaseURL),
			Model:     cfg.GetString(driven.KeyLLMModel),
			RateLimit: rl,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring groq chat: %w", err)
		}
		logger.Debug("Using groq chat (%s)", svc.ModelName())
		return svc, nil
	case "ollama":
		svc := ollamallm.NewLLMService(ollamallm.Config{
			BaseURL:   cfg.GetString(driven.KeyLLMBaseURL),
			Model:     cfg.GetString(driven.KeyLLMModel),
			RateLimit: rl,
		})
		logger.Debug("Using ollama chat (%s)", svc.ModelName())
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", provider)
	}
}

// buildEmbedder picks the embedding backend. An explicit provider in
// the config wins; otherwise OpenAI is used when its key is present
// and the local Ollama daemon otherwise.
func buildEmbedder(cfg driven.ConfigStore, rl ratelimit.Config) (driven.EmbeddingService, error) {
	provider := cfg.GetString(driven.KeyEmbeddingProvider)
	openAIKey := os.Getenv(envOpenAIKey)

	if provider == "" {
		if openAIKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     openAIKey,
			BaseURL:    cfg.GetString(driven.KeyEmbeddingBaseURL),
			Model:      cfg.GetString(driven.KeyEmbeddingModel),
			Dimensions: cfg.GetInt(driven.KeyEmbeddingDimensions),
			RateLimit:  rl,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring openai embeddings: %w", err)
		}
		logger.Debug("Using openai embeddings (%s)", svc.Config().Model)
		return svc, nil
	case "ollama":
		svc := ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString(driven.KeyEmbeddingBaseURL),
			Model:      cfg.GetString(driven.KeyEmbeddingModel),
			Dimensions: cfg.GetInt(driven.KeyEmbeddingDimensions),
			RateLimit:  rl,
		})
		logger.Debug("Using ollama embeddings (%s)", svc.Config().Model)
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
