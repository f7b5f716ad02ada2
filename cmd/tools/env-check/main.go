// cmd/tools/env-check/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"material-selector/internal/common/config"
	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
)

const greetingPrompt = "Say 'Hello' only"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("env-check", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a config file (default: configs/config.yaml)")
	timeout := fs.Duration("timeout", 60*time.Second, "Timeout for the test completion")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "ENVIRONMENT CHECK")
	fmt.Fprintln(out, rule)

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(out, "❌ Configuration error: %v\n", err)
		return 1
	}

	if err := config.RequireCredentials(cfg); err != nil {
		fmt.Fprintln(out, "❌ BYTEZ_API_KEY not found in environment or .env file!")
		fmt.Fprintln(out, "\nCreate a .env file with:")
		fmt.Fprintln(out, "BYTEZ_API_KEY=your_api_key_here")
		return 1
	}
	fmt.Fprintf(out, "✓ API Key found: %s...\n", maskKey(cfg.Model.APIKey))
	if config.EnvFileLoaded != "" {
		fmt.Fprintf(out, "✓ Environment file loaded: %s\n", config.EnvFileLoaded)
	}
	fmt.Fprintf(out, "✓ Model: %s at %s\n", cfg.Model.Name, cfg.Model.BaseURL)

	fmt.Fprintln(out, "\nTesting API connection...")
	fmt.Fprintln(out, "(This may take a moment...)")

	client := llm.NewFromConfig(cfg, logger.NewNoOpLogger())
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	temperature := 0.1
	reply, err := client.Complete(ctx, llm.Request{
		CallSite:    "env-check",
		User:        greetingPrompt,
		Temperature: &temperature,
		MaxTokens:   10,
	})
	if err != nil {
		fmt.Fprintf(out, "❌ API Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, "✓ API Connection successful!")
	fmt.Fprintf(out, "  Response: %s\n", reply)

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "✓ ALL CHECKS PASSED - System is ready!")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "\nRun: material-selector")
	return 0
}

// maskKey keeps enough of the key to tell credentials apart.
func maskKey(key string) string {
	if len(key) > 10 {
		return key[:10]
	}
	return key[:len(key)/2]
}
