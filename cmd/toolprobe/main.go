// Command toolprobe runs the brute-force tool contract search against a
// sheet-serving tool server and prints the winning contract as YAML, ready
// to paste into the source configuration. It exists so the serving process
// never has to guess: discovery happens here, the server runs pinned.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"marketlens/internal/sheets"
	"marketlens/internal/toolcall"
)

func main() {
	endpoint := flag.String("endpoint", "", "tool server endpoint (streaming suffixes like /sse are stripped)")
	spreadsheet := flag.String("spreadsheet", "", "spreadsheet ID or full sheet URL used for the probe fetch")
	sheet := flag.String("sheet", "Variation", "sheet name passed to the probe fetch")
	tool := flag.String("tool", "read_sheet", "tool name to invoke")
	token := flag.String("token", "", "optional bearer token")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	verbose := flag.Bool("v", false, "log every attempt")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *endpoint == "" {
		fmt.Fprintln(os.Stderr, "toolprobe: -endpoint is required")
		flag.Usage()
		os.Exit(2)
	}
	if *spreadsheet == "" {
		fmt.Fprintln(os.Stderr, "toolprobe: -spreadsheet is required")
		flag.Usage()
		os.Exit(2)
	}

	id, err := sheets.ExtractSpreadsheetID(*spreadsheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolprobe: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	negotiator := toolcall.NewNegotiator(*endpoint, *token, *timeout, logger)
	result, err := negotiator.Discover(ctx, *tool, id, *sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolprobe: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("# negotiated in %d attempt(s)\n", result.Attempts)
	out, err := yaml.Marshal(map[string]toolcall.Contract{"tool_contract": result.Contract})
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolprobe: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)

	if len(result.Tools) > 0 {
		fmt.Println("# tools advertised by the server:")
		for _, t := range result.Tools {
			if t.Description != "" {
				fmt.Printf("#   %s - %s\n", t.Name, t.Description)
			} else {
				fmt.Printf("#   %s\n", t.Name)
			}
		}
	}
}
