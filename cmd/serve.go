/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "faqrag/handler/http"
	"faqrag/src/core/faq"
	"faqrag/src/log"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FAQ question-answering server",
	Long:  `The serve command starts an HTTP server that answers questions over the FAQ index and scores answers on demand.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("collection", "c", "", "Collection name (defaults to faq.collection)")
}

func RunServer(cmd *cobra.Command, args []string) {
	collection, _ := cmd.Flags().GetString("collection")
	if collection == "" {
		collection = viper.GetString("faq.collection")
	}

	generator, err := newGenerator()
	if err != nil {
		log.Error(err, "generator is not configured")
		return
	}

	pipeline := faq.NewPipeline(
		faq.NewRetriever(newEmbedder(), newChunkIndex(collection)),
		generator,
		newMetricsRecorder(),
		newCostTable(),
	)

	handler := httpHdlr.NewHandler(
		pipeline,
		newEvaluator(),
		viper.GetInt("retrieve.k"),
		viper.GetDuration("request.timeout"),
	)

	// Setup gin router
	r := gin.Default()
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "failed to start server")
			os.Exit(1)
		}
	}()
	log.Info("server started", "port", viper.GetString("server.port"), "collection", collection)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "server forced to shutdown")
	}

	log.Info("server exited")
}
