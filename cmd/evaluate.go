/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"faqrag/src/core/evaluation"
	"faqrag/src/core/faq"
	"faqrag/src/log"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a saved answer offline",
	Long: `The evaluate command reads an AnswerResponse JSON file, as printed by
the query command, and scores it without touching the index or the LLM.
All four sub-scorers are pure functions of the saved answer.`,
	Run: RunEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringP("input", "i", "", "Path to the AnswerResponse JSON file")
	evaluateCmd.MarkFlagRequired("input")
}

func RunEvaluate(cmd *cobra.Command, args []string) {
	inputPath, _ := cmd.Flags().GetString("input")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Error(err, "failed to read answer file", "path", inputPath)
		os.Exit(1)
	}

	var answer faq.AnswerResponse
	if err := json.Unmarshal(data, &answer); err != nil {
		log.Error(fmt.Errorf("%w: %v", evaluation.ErrMalformedAnswer, err), "failed to parse answer file")
		os.Exit(1)
	}

	report := newEvaluator().Evaluate(answer)

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error(err, "failed to marshal evaluation report")
		os.Exit(1)
	}
	fmt.Println(string(output))
}
