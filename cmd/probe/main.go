// Command probe runs smoke checks against a running pipeline-demo server.
//
// Usage:
//
//	./probe -url http://localhost:8080
//
// It exits 1 when any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/example/pipeline-demo/internal/infrastructure/logging"
	"github.com/example/pipeline-demo/internal/probe"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server")
	timeout := flag.Duration("timeout", 15*time.Second, "Overall deadline for all checks")
	payload := flag.String("payload", "ping", "Text sent to the echo endpoints")
	retries := flag.Int("retries", 2, "Retries per HTTP check")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	logCfg := logging.Config{Level: "info"}
	if *dev {
		logCfg = logging.Config{Level: "debug", Development: true}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	p, err := probe.New(*baseURL, logger.Component("probe"),
		probe.WithPayload(*payload),
		probe.WithRetries(*retries, 200*time.Millisecond),
	)
	if err != nil {
		logger.Fatal("Invalid arguments", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := p.Run(ctx)
	for _, r := range results {
		status := "PASS"
		if !r.OK {
			status = "FAIL"
		}
		fmt.Printf("%s  %-12s %s\n", status, r.Name, r.Detail)
	}
	if err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
