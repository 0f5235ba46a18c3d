package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"faqrag/src/core/evaluation"
	"faqrag/src/core/faq"
	"faqrag/src/infrastructure/integrations/ollama"
	"faqrag/src/infrastructure/integrations/openrouter"
	"faqrag/src/log"
	"faqrag/src/storage/csvctrl"
	"faqrag/src/storage/minioctrl"
	"faqrag/src/storage/postgres/metricctrl"
	"faqrag/src/storage/weaviate"
)

func init() {
	settingDefaultConfig()
}

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.base_url", "OPENROUTER_BASE_URL")
	viper.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	viper.BindEnv("metrics.csv_path", "METRICS_CSV_PATH")
	viper.BindEnv("metrics.postgres_enabled", "METRICS_POSTGRES_ENABLED")
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")
	viper.BindEnv("minio.enabled", "MINIO_ENABLED")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.manifest_bucket", "MINIO_MANIFEST_BUCKET")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Vector index and embeddings
	viper.SetDefault("weaviate.host", "localhost:8080")
	viper.SetDefault("weaviate.scheme", "http")
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")

	// Answer generation
	viper.SetDefault("openrouter.base_url", openrouter.DefaultBaseURL)
	viper.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	viper.SetDefault("openrouter.max_tokens", 200)

	// Corpus and retrieval
	viper.SetDefault("faq.collection", "hr_faq")
	viper.SetDefault("chunk.approx_chars", 800)
	viper.SetDefault("chunk.overlap_chars", 200)
	viper.SetDefault("retrieve.k", 5)
	viper.SetDefault("request.timeout", "60s")

	// Metrics: CSV is always on, postgres mirror is opt-in
	viper.SetDefault("metrics.csv_path", "outputs/metrics.csv")
	viper.SetDefault("metrics.postgres_enabled", false)
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "faqrag")

	// Token pricing, USD per million tokens
	viper.SetDefault("cost.prompt_usd_per_1m", 0.15)
	viper.SetDefault("cost.completion_usd_per_1m", 0.60)

	// Evaluator heuristics
	viper.SetDefault("eval.support_overlap", 2)
	viper.SetDefault("eval.top_keywords", 20)
	viper.SetDefault("eval.min_keyword_length", 3)
	viper.SetDefault("eval.clarity_min_tokens", 8)
	viper.SetDefault("eval.clarity_max_tokens", 35)

	// Object storage corpus source (optional)
	viper.SetDefault("minio.enabled", false)
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.manifest_bucket", "faq-manifests")

	// HTTP server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")
}

func newChunkIndex(collection string) *weaviate.ChunkIndex {
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	return weaviate.NewChunkIndex(wc, collection)
}

func newEmbedder() *ollama.Embedder {
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 30 * time.Second,
	})
	return ollama.NewEmbedder(oc, viper.GetString("ollama.embedding_model"))
}

func newGenerator() (*openrouter.Client, error) {
	return openrouter.NewClient(
		viper.GetString("openrouter.api_key"),
		viper.GetString("openrouter.base_url"),
		viper.GetString("openrouter.model"),
		viper.GetInt("openrouter.max_tokens"),
	)
}

func newCostTable() faq.CostTable {
	return faq.CostTable{
		PromptUSDPerMillion:     viper.GetFloat64("cost.prompt_usd_per_1m"),
		CompletionUSDPerMillion: viper.GetFloat64("cost.completion_usd_per_1m"),
	}
}

func newEvaluator() *evaluation.Evaluator {
	return evaluation.New(evaluation.Config{
		SupportOverlap:   viper.GetInt("eval.support_overlap"),
		TopKeywords:      viper.GetInt("eval.top_keywords"),
		MinKeywordLength: viper.GetInt("eval.min_keyword_length"),
		ClarityMinTokens: viper.GetFloat64("eval.clarity_min_tokens"),
		ClarityMaxTokens: viper.GetFloat64("eval.clarity_max_tokens"),
	})
}

// newMetricsRecorder builds the CSV recorder and, when enabled, the
// postgres mirror behind a single fan-out recorder.
func newMetricsRecorder() faq.MetricsRecorder {
	recorders := faq.MultiRecorder{
		csvctrl.NewMetricsRecorder(viper.GetString("metrics.csv_path")),
	}

	if viper.GetBool("metrics.postgres_enabled") {
		svc, err := newPostgresMetricService()
		if err != nil {
			log.Error(err, "postgres metrics mirror disabled")
			return recorders
		}
		recorders = append(recorders, svc)
	}

	return recorders
}

func newPostgresMetricService() (*metricctrl.MetricService, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %v", err)
	}
	return metricctrl.NewMetricService(db)
}

func newMinioService() (*minioctrl.MinioService, error) {
	return minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		false,
	)
}
