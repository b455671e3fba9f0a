// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CrawX/go-imap-triage/config"
	"github.com/CrawX/go-imap-triage/corpus"
	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/feedback"
	"github.com/CrawX/go-imap-triage/imapconnection"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/mailbox"
	"github.com/CrawX/go-imap-triage/modelstore"
	"github.com/CrawX/go-imap-triage/persistence"
	"github.com/CrawX/go-imap-triage/pipeline"
	"github.com/CrawX/go-imap-triage/retrain"
	"github.com/CrawX/go-imap-triage/server"
	"github.com/CrawX/go-imap-triage/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var configFile string

var rootCmd = &cobra.Command{
	Use:          "go-imap-triage",
	Short:        "Sort an IMAP folder into inbox and spam and learn from corrections",
	RunE:         runServe,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the mailbox and serve the classified snapshot over HTTP",
	RunE:  runServe,
}

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Train a new model from the canonical and reinforcement datasets",
	RunE:  runRetrain,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.toml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd, retrainCmd)
}

func main() {
	log.InitLogging("debug")

	if err := rootCmd.Execute(); err != nil {
		log.Logger(log.LOG_MAIN).WithField("error", err).Fatal("Exiting")
	}
}

func loadConfig() (*config.Config, error) {
	conf, err := config.ReadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	return conf, nil
}

func newRetrainJob(conf *config.Config, store *modelstore.Store) *retrain.Job {
	return retrain.NewJob(conf.CanonicalDataset, conf.ReinforcementDataset, store)
}

func runRetrain(cmd *cobra.Command, args []string) error {
	logger := log.Logger(log.LOG_MAIN)

	conf, err := loadConfig()
	if err != nil {
		return err
	}

	store := modelstore.NewStore(conf.VectorizerPath, conf.ClassifierPath)
	report, err := newRetrainJob(conf, store).Retrain()
	if err != nil {
		return fmt.Errorf("could not retrain: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"examples":   report.Examples,
		"dropped":    report.Dropped,
		"vocabulary": report.Vocabulary,
		"generation": report.Generation,
	}).Info("Model retrained")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.Logger(log.LOG_MAIN)

	conf, err := loadConfig()
	if err != nil {
		return err
	}
	err = conf.ValidateServe()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	p, err := persistence.NewPersistence(conf.Database)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer p.Close()

	store := modelstore.NewStore(conf.VectorizerPath, conf.ClassifierPath)
	job := newRetrainJob(conf, store)
	if !store.Exists() {
		if conf.TrainIfMissing {
			logger.Info("No model artifact found, training one")
			_, err = job.Retrain()
			if err != nil {
				logger.WithField("error", err).Warn("Could not train initial model, classifier stays unavailable")
			}
		} else {
			logger.Warn("No model artifact found, classifier stays unavailable until retrained")
		}
	}

	pl, err := pipeline.NewPipeline(p, store,
		pipeline.Concurrency(conf.Concurrency),
		pipeline.Interval(conf.PollInterval.Duration),
		pipeline.RefreshDelay(conf.RefreshDelay.Duration),
	)
	if err != nil {
		return fmt.Errorf("could not start pipeline: %w", err)
	}

	source := mailbox.NewMailbox(func() (domain.ImapConnector, error) {
		conn, err := imapconnection.NewImapConnection(conf.ImapHost, conf.User, conf.Password)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, conf.Folder, conf.FetchLimit, conf.SummaryLength)

	cache := snapshot.NewCache()
	poller := pipeline.NewPoller(source, pl, cache)
	ingest := feedback.NewIngest(p, corpus.NewReinforcementCorpus(conf.ReinforcementDataset), job, cache, poller.Refresh)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.NewServer(cache, ingest).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poller.Run(ctx)
		return nil
	})
	g.Go(func() error {
		logger.WithFields(logrus.Fields{"listen": conf.Listen, "folder": conf.Folder}).Info("Serving")
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("Stopped")
	return err
}
