// Command seed-records loads patient records from a JSON fixture into Redis.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"projeto_nfc/internal/app/seed"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/config"
	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/redisdb"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "-", "JSON fixture to load (- for stdin)")
	flag.Parse()

	if err := run(file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string) error {
	cfg, err := config.LoadSeed()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	var in io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer f.Close()
		in = f
	}
	entries, err := seed.Decode(in)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rdb, err := redisdb.Connect(ctx, cfg.RedisConfig)
	if err != nil {
		return err
	}
	defer rdb.Close()

	ids, err := seed.Run(ctx, repository.NewRedisRecordRepository(rdb, cfg.RecordKeyPrefix), entries, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d record(s):\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
