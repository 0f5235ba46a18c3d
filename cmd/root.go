/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"faqrag/src/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faqrag",
	Short: "Retrieval-augmented question answering over a private FAQ corpus",
	Long: `faqrag answers user questions against a private FAQ corpus.

It chunks the corpus, stores embeddings in Weaviate, retrieves the most
relevant chunks for a question, asks an LLM for a grounded answer with
inline [chunk_NNNN] citations, and scores the answer automatically.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Secrets such as OPENROUTER_API_KEY may live in a local .env
		// file. Missing file is fine, the environment wins either way.
		if err := godotenv.Load(); err == nil {
			log.Debug("loaded .env file")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
