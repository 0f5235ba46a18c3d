/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faqrag/src/log"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show recent request metrics from the PostgreSQL mirror",
	Long: `The metrics command reads the latest request metrics rows from the
PostgreSQL mirror and prints them as JSON, newest first. It requires
metrics.postgres_enabled; the CSV log stays the primary record either way.`,
	Run: RunMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().IntP("limit", "n", 20, "Number of rows to show")
}

func RunMetrics(cmd *cobra.Command, args []string) {
	if !viper.GetBool("metrics.postgres_enabled") {
		log.Error(nil, "metrics.postgres_enabled is off, only the CSV log is written")
		os.Exit(1)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = 20
	}

	svc, err := newPostgresMetricService()
	if err != nil {
		log.Error(err, "failed to open postgres metrics")
		os.Exit(1)
	}

	rows, err := svc.Recent(context.Background(), limit)
	if err != nil {
		log.Error(err, "failed to list metrics")
		os.Exit(1)
	}

	output, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		log.Error(err, "failed to marshal metrics")
		os.Exit(1)
	}
	fmt.Println(string(output))
}
