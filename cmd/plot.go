// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghweekly/ghweekly/internal/chart"
	"github.com/ghweekly/ghweekly/internal/domain"
	"github.com/ghweekly/ghweekly/internal/gateway"
	"github.com/ghweekly/ghweekly/internal/usecase"
)

const dateLayout = "2006-01-02"

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Fetches weekly commit counts and renders a stacked bar chart",
	Long: `Fetches commits authored by a GitHub user for each given repository,
aggregates them into per-week counts, prints the weekly table, and
optionally renders a stacked bar chart (PNG, or HTML if the output
file ends in .html).

An optional GITHUB_TOKEN environment variable is used as a bearer
token for higher rate limits.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		user, _ := cmd.Flags().GetString("user")
		repoArgs, _ := cmd.Flags().GetStringSlice("repos")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		output, _ := cmd.Flags().GetString("output")
		renderChart, _ := cmd.Flags().GetBool("plot")
		token := os.Getenv("GITHUB_TOKEN")

		// Resolve the date range once, at invocation time. The defaults are
		// January 1 of the current year through today.
		now := time.Now().UTC()
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		if startStr != "" {
			var err error
			start, err = time.ParseInLocation(dateLayout, startStr, time.UTC)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --start date. Please use YYYY-MM-DD. Error: %v\n", err)
				os.Exit(1)
			}
		}
		end := now
		if endStr != "" {
			var err error
			end, err = time.ParseInLocation(dateLayout, endStr, time.UTC)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --end date. Please use YYYY-MM-DD. Error: %v\n", err)
				os.Exit(1)
			}
		}
		rng, err := domain.NewDateRange(start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid date range: %v\n", err)
			os.Exit(1)
		}

		repos := make([]domain.Repo, 0, len(repoArgs))
		for _, arg := range repoArgs {
			repo, err := domain.ParseRepo(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			repos = append(repos, repo)
		}

		// Inject dependencies and run the pipeline.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		table, err := aggregator.Aggregate(ctx, user, repos, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate commits: %v\n", err)
			os.Exit(1)
		}

		printTable(os.Stdout, table)
		printSummary(os.Stdout, usecase.Summarize(table))

		if renderChart {
			if err := chart.Write(table, chart.Options{User: user}, output); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to render chart: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Chart saved to %s\n", output)
		}
	},
}

// printTable writes the weekly count table as an aligned text table, one row
// per week-start date and one column per repository.
func printTable(w io.Writer, table *domain.WeeklyTable) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "week")
	for _, repo := range table.Repos() {
		fmt.Fprintf(tw, "\t%s", repo.ShortName())
	}
	fmt.Fprintln(tw)
	for row, week := range table.Weeks() {
		fmt.Fprint(tw, week.Format(dateLayout))
		for col := range table.Repos() {
			fmt.Fprintf(tw, "\t%d", table.Count(row, col))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func printSummary(w io.Writer, summaries []usecase.RepoSummary) {
	if len(summaries) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "repo\ttotal\tmean/week\tpeak\tpeak week")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%s\n",
			s.Repo.FullName(), s.Total, s.WeeklyMean, s.Peak, s.PeakWeek.Format(dateLayout))
	}
	tw.Flush()
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringP("user", "u", "", "GitHub username whose commits are counted (required)")
	plotCmd.Flags().StringSliceP("repos", "r", nil, "Repositories to include, as owner/repo (required)")
	plotCmd.MarkFlagRequired("user")
	plotCmd.MarkFlagRequired("repos")
	plotCmd.Flags().String("start", "", "Start date (YYYY-MM-DD), default: January 1 of the current year")
	plotCmd.Flags().String("end", "", "End date (YYYY-MM-DD), default: today")
	plotCmd.Flags().StringP("output", "o", "weekly_commits.png", "Chart output file; .html renders an interactive page")
	plotCmd.Flags().Bool("plot", false, "Render the chart to the output file")
}
