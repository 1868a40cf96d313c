package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	eventaggregator "github.com/stofte/event-aggregator-listener"
	"github.com/stofte/event-aggregator-listener/internal/config"
	"github.com/stofte/event-aggregator-listener/internal/demo"
	"github.com/stofte/event-aggregator-listener/journal"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "eventsdemo: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "eventsdemo ", log.LstdFlags)
	}

	agg := eventaggregator.New(eventaggregator.WithLogger(logger))

	var recorders []journal.Streamer

	if cfg.JournalEnabled() {
		j, err := openJournal(cfg, logger)
		if err != nil {
			return err
		}

		defer closeAndLog(logger, j)

		domainRec := journal.NewRecorder[demo.DomainEvent](j)
		otherRec := journal.NewRecorder[demo.OtherDomainEvent](j)

		if err := eventaggregator.RegisterAll(agg, domainRec, otherRec); err != nil {
			return err
		}

		recorders = append(recorders, domainRec, otherRec)

		defer printJournal(out, logger, j, recorders)
	}

	return demo.Run(agg, out)
}

func openJournal(cfg *config.Config, logger *log.Logger) (*journal.Journal, error) {
	enc := journal.NewJSONEncoder(demo.DomainEvent{}, demo.OtherDomainEvent{})

	db := journal.WithSQLiteDB(cfg.JournalSQLitePath)
	if cfg.JournalPostgresDSN != "" {
		db = journal.WithPostgresDB(cfg.JournalPostgresDSN)
	}

	return journal.New(enc, db, journal.WithLogger(logger))
}

func closeAndLog(logger *log.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Printf("journal: close: %v", err)
	}
}

func printJournal(out io.Writer, logger *log.Logger, j *journal.Journal, streams []journal.Streamer) {
	for _, s := range streams {
		records, err := j.ReadStream(context.Background(), s.Stream())
		if err != nil {
			logger.Printf("journal: read %s: %v", s.Stream(), err)

			continue
		}

		for _, r := range records {
			fmt.Fprintf(out, "journal %s #%d: %+v\n", r.StreamID, r.StreamVersion, r.Event)
		}
	}
}
