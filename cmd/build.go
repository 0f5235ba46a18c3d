/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faqrag/src/core/faq"
	"faqrag/src/log"
	"faqrag/src/storage/minioctrl"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index from a FAQ corpus",
	Long: `The build command chunks a plain text corpus, embeds every chunk and
stores the result in the Weaviate collection. The input is a local file
path or a minio://bucket/object URI.`,
	Run: RunBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("input", "i", "", "Path or minio:// URI of the plain text corpus")
	buildCmd.MarkFlagRequired("input")
	buildCmd.Flags().StringP("collection", "c", "", "Collection name (defaults to faq.collection)")
	buildCmd.Flags().Int("approx-chars", 0, "Approximate characters per chunk")
	buildCmd.Flags().Int("overlap-chars", 0, "Overlap characters between chunks")
	buildCmd.Flags().Bool("rebuild", false, "Drop the existing collection first")
}

type buildManifest struct {
	InputPath  string `json:"input_path"`
	Collection string `json:"collection_name"`
	NChunks    int    `json:"n_chunks"`
}

func RunBuild(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	input, _ := cmd.Flags().GetString("input")
	collection, _ := cmd.Flags().GetString("collection")
	if collection == "" {
		collection = viper.GetString("faq.collection")
	}
	approxChars, _ := cmd.Flags().GetInt("approx-chars")
	if approxChars == 0 {
		approxChars = viper.GetInt("chunk.approx_chars")
	}
	overlapChars, _ := cmd.Flags().GetInt("overlap-chars")
	if overlapChars == 0 {
		overlapChars = viper.GetInt("chunk.overlap_chars")
	}
	rebuild, _ := cmd.Flags().GetBool("rebuild")

	text, source, err := loadCorpus(ctx, input)
	if err != nil {
		log.Error(err, "failed to load corpus", "input", input)
		os.Exit(1)
	}

	chunks, err := faq.BuildChunks(text, source, approxChars, overlapChars)
	if err != nil {
		log.Error(err, "failed to chunk corpus")
		os.Exit(1)
	}
	log.Info("created chunks",
		"n_chunks", len(chunks),
		"approx_chars", approxChars,
		"overlap_chars", overlapChars)
	if len(chunks) < 20 {
		log.Info("created fewer than 20 chunks, consider reducing approx_chars or overlap_chars",
			"n_chunks", len(chunks))
	}

	embedder := newEmbedder()
	vectors := make([][]float32, len(chunks))
	bar := progressbar.Default(int64(len(chunks)), "embedding chunks")
	for n, chunk := range chunks {
		vectors[n], err = embedder.Embed(ctx, chunk.Text)
		if err != nil {
			log.Error(err, "failed to embed chunk", "chunk_id", chunk.ChunkID)
			os.Exit(1)
		}
		bar.Add(1)
	}

	index := newChunkIndex(collection)
	if rebuild {
		if err := index.Drop(ctx); err != nil {
			log.Info("no existing collection to drop", "collection", collection)
		}
	}
	if err := index.EnsureSchema(ctx); err != nil {
		log.Error(err, "failed to ensure schema", "collection", collection)
		os.Exit(1)
	}
	if err := index.Upsert(ctx, chunks, vectors); err != nil {
		log.Error(err, "failed to upsert chunks")
		os.Exit(1)
	}

	manifest := buildManifest{
		InputPath:  input,
		Collection: collection,
		NChunks:    len(chunks),
	}
	if err := writeManifest(ctx, manifest); err != nil {
		// The index itself is built; a lost manifest is only annoying.
		log.Error(err, "failed to write build manifest")
	}

	out, _ := json.MarshalIndent(manifest, "", "  ")
	fmt.Println(string(out))
}

// loadCorpus reads the corpus from a local file or from object storage
// when given a minio:// URI.
func loadCorpus(ctx context.Context, input string) (text, source string, err error) {
	if bucket, object, ok := minioctrl.ParseURI(input); ok {
		svc, err := newMinioService()
		if err != nil {
			return "", "", err
		}
		data, err := svc.GetObject(ctx, bucket, object)
		if err != nil {
			return "", "", err
		}
		return string(data), filepath.Base(object), nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", "", fmt.Errorf("failed to read corpus file: %w", err)
	}
	return string(data), filepath.Base(input), nil
}

func writeManifest(ctx context.Context, manifest buildManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s_manifest.json", manifest.Collection)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}

	if viper.GetBool("minio.enabled") {
		svc, err := newMinioService()
		if err != nil {
			return err
		}
		bucket := viper.GetString("minio.manifest_bucket")
		if err := svc.EnsureBucketExists(ctx, bucket); err != nil {
			return err
		}
		return svc.PutObject(ctx, bucket, name, data, "application/json")
	}
	return nil
}
