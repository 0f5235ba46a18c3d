/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faqrag/src/core/faq"
	"faqrag/src/log"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a question against the FAQ index",
	Long: `The query command embeds the question, retrieves the top-k chunks from
Weaviate, asks the LLM for a grounded answer with inline [chunk_NNNN]
citations and prints the structured response as JSON. Request metrics
are appended to the metrics log.`,
	Run: RunQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("question", "q", "", "User question (prompts interactively when omitted)")
	queryCmd.Flags().StringP("collection", "c", "", "Collection name (defaults to faq.collection)")
	queryCmd.Flags().IntP("k", "k", 0, "Number of chunks to retrieve")
	queryCmd.Flags().Bool("evaluate", false, "Score the answer and print the evaluation report")
	queryCmd.Flags().Duration("timeout", 0, "Overall request timeout")
}

func RunQuery(cmd *cobra.Command, args []string) {
	question, _ := cmd.Flags().GetString("question")
	if question == "" {
		fmt.Print("Enter your question: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		question = strings.TrimSpace(line)
	}
	if question == "" {
		fmt.Println("No question provided. Exiting.")
		return
	}

	collection, _ := cmd.Flags().GetString("collection")
	if collection == "" {
		collection = viper.GetString("faq.collection")
	}
	k, _ := cmd.Flags().GetInt("k")
	if k <= 0 {
		k = viper.GetInt("retrieve.k")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = viper.GetDuration("request.timeout")
	}

	generator, err := newGenerator()
	if err != nil {
		log.Error(err, "generator is not configured")
		os.Exit(1)
	}

	pipeline := faq.NewPipeline(
		faq.NewRetriever(newEmbedder(), newChunkIndex(collection)),
		generator,
		newMetricsRecorder(),
		newCostTable(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	answer, err := pipeline.Answer(ctx, question, k)
	if err != nil {
		log.Error(err, "failed to answer question")
		os.Exit(1)
	}

	output, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		log.Error(err, "failed to marshal answer")
		os.Exit(1)
	}
	fmt.Println("----- Final Output -----")
	fmt.Println(string(output))

	if doEval, _ := cmd.Flags().GetBool("evaluate"); doEval {
		report := newEvaluator().Evaluate(*answer)
		reportJSON, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Error(err, "failed to marshal evaluation report")
			os.Exit(1)
		}
		fmt.Println("----- Evaluation -----")
		fmt.Println(string(reportJSON))
	}
}
