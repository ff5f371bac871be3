package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"songfinder/lyricsearch/internal/app"
	"songfinder/lyricsearch/internal/domain"
	"songfinder/lyricsearch/internal/search"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := app.LoadConfig()

	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lang := fs.String("lang", string(cfg.DefaultLanguage), "Transcript language (vi-VN or en-US)")
	timeout := fs.Duration("timeout", cfg.ResolveTimeout, "Overall resolve timeout")
	asJSON := fs.Bool("json", false, "Print the resolution as JSON")
	bestOnly := fs.Bool("best", false, "Print only the best match, without preview or snippet lookups")
	showHistory := fs.Int("history", 0, "Print the N most recent history entries instead of resolving")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: resolve [-lang vi-VN] [-timeout 20s] [-json] [-best] <transcript...>")
		fmt.Fprintln(stderr, "       resolve -history 10")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := app.NewLogger(stderr, getLogLevel(cfg.LogLevel), cfg.LogFormat)

	// -timeout bounds the resolve only; backend connects have their own retries.
	components := app.Build(context.Background(), cfg, logger)
	defer components.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *showHistory > 0 {
		entries, err := components.History.List(ctx, *showHistory)
		if err != nil {
			fmt.Fprintf(stderr, "history: %v\n", err)
			return 1
		}
		if *asJSON {
			return printJSON(stdout, stderr, map[string]any{"items": entries})
		}
		printHistory(stdout, entries)
		return 0
	}

	transcript := strings.Join(fs.Args(), " ")
	language := domain.NormalizeLanguage(*lang, cfg.DefaultLanguage)
	if err := search.CheckTranscript(transcript); err != nil {
		fmt.Fprintln(stderr, domain.ErrorMessage(domain.ErrorNoSpeech, language))
		fs.Usage()
		return 2
	}

	if *bestOnly {
		best, ok := components.Service.ResolveBest(ctx, transcript)
		if !ok {
			fmt.Fprintln(stdout, domain.ErrorMessage(domain.ErrorNoResult, language))
			return 1
		}
		if *asJSON {
			return printJSON(stdout, stderr, best)
		}
		fmt.Fprintf(stdout, "%s - %s\n%s\n", best.Title, best.Artist, best.URL)
		return 0
	}

	resolution := components.Service.ResolveDetailed(ctx, transcript, language)
	if *asJSON {
		return printJSON(stdout, stderr, resolution)
	}
	if len(resolution.Results) == 0 {
		kind := domain.ErrorNoResult
		if resolution.Failure != "" {
			kind = resolution.Failure
		}
		fmt.Fprintln(stdout, domain.ErrorMessage(kind, language))
		return 1
	}
	printResults(stdout, resolution)
	return 0
}

// getLogLevel keeps the CLI quiet unless the operator asked for more.
func getLogLevel(configured string) string {
	if strings.TrimSpace(os.Getenv("LOG_LEVEL")) == "" {
		return "warn"
	}
	return configured
}

func printJSON(stdout, stderr io.Writer, payload any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}

func printResults(w io.Writer, resolution search.Resolution) {
	fmt.Fprintf(w, "query variants: %s\n", strings.Join(resolution.Queries, " | "))
	fmt.Fprintf(w, "matched variant %d in %s\n\n", resolution.Variant, resolution.Elapsed.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tARTIST\tPREVIEW\tURL")
	for i, result := range resolution.Results {
		preview := "-"
		if result.PreviewURL != "" {
			preview = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, result.Title, result.Artist, preview, result.URL)
	}
	_ = tw.Flush()

	if best, ok := resolution.Results.Best(); ok && best.Lyrics != "" {
		fmt.Fprintf(w, "\n%s\n", best.Lyrics)
	}
}

func printHistory(w io.Writer, entries []domain.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tLANG\tQUERY\tRESULT")
	for _, entry := range entries {
		result := "-"
		if entry.Result != nil {
			result = entry.Result.Title + " - " + entry.Result.Artist
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Timestamp.Local().Format(time.DateTime), entry.Language, entry.Query, result)
	}
	_ = tw.Flush()
}
