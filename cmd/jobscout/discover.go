package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmatsuda/jobscout/internal/pipeline"
)

var (
	discoverKeywords  []string
	discoverLocations []string
	discoverSources   []string
	discoverMax       int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery session",
	Long:  `Run a discovery session against the configured sources and print the session outcome. Ctrl-C cancels the session; results gathered so far are kept.`,
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().StringSliceVar(&discoverKeywords, "keyword", nil, "Search keyword (repeatable)")
	discoverCmd.Flags().StringSliceVar(&discoverLocations, "location", nil, "Search location (repeatable)")
	discoverCmd.Flags().StringSliceVar(&discoverSources, "source", nil, "Source to run (defaults to configured sources)")
	discoverCmd.Flags().IntVar(&discoverMax, "max-results", 0, "Result cap per source (defaults to configured max)")
	_ = discoverCmd.MarkFlagRequired("keyword")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sources := discoverSources
	if len(sources) == 0 {
		sources = a.cfg.Sources
	}
	maxResults := discoverMax
	if maxResults == 0 {
		maxResults = a.cfg.MaxResults
	}

	session, err := a.service.StartDiscovery(ctx, pipeline.DiscoveryRequest{
		Keywords:   discoverKeywords,
		Locations:  discoverLocations,
		Sources:    sources,
		MaxResults: maxResults,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Session %s: %s\n", session.ID, session.Status)
	fmt.Printf("  jobs found: %d\n", session.JobsFound)
	fmt.Printf("  jobs new:   %d\n", session.JobsNew)
	if session.ErrorMessage != "" {
		fmt.Printf("  error:      %s\n", session.ErrorMessage)
	}
	if d := session.Duration(); d > 0 {
		fmt.Printf("  duration:   %s\n", d.Round(10*time.Millisecond))
	}
	return nil
}
