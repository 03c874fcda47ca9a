package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/readinglist/internal/api"
	"github.com/dgallion1/readinglist/internal/config"
	"github.com/dgallion1/readinglist/internal/parser"
	"github.com/dgallion1/readinglist/internal/pipeline"
	"github.com/dgallion1/readinglist/internal/segment"
	"github.com/dgallion1/readinglist/internal/stats"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return runServe(cfg)
		},
	}
	c.Flags().StringVarP(&port, "port", "p", "", "listen port (default PORT or 8090)")
	return c
}

func runServe(cfg config.Config) error {
	log := newLogger(os.Stdout, cfg.SlogLevel())

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}
	groups, err := config.LoadGroups(cfg.GroupsFile)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}
	if cfg.APIKey == "" {
		log.Warn("READINGLIST_API_KEY is empty, API is unauthenticated")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := stats.New(cfg.StatsWindow)
	results := pipeline.NewResultStore(cfg.ResultTTL)
	go results.Run(ctx, 5*time.Minute)

	conv := pipeline.NewConverter(
		segment.Options{
			SummaryLineLimit: cfg.SummaryLineLimit,
			FallbackYear:     cfg.FallbackYear,
			Groups:           groups,
		},
		parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		st,
		log,
	)
	srv := api.NewServer(conv, results, st, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting readinglist", "port", cfg.Port, "version", version)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
