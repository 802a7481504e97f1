// Command repodigest aggregates a repository's recent activity, summarizes
// it with an LLM, and posts the digest as a GitHub Discussion.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/spf13/cobra"

	"github.com/mkallio/repodigest/internal/adapter/driven/cache"
	githubadapter "github.com/mkallio/repodigest/internal/adapter/driven/github"
	"github.com/mkallio/repodigest/internal/adapter/driven/llm"
	"github.com/mkallio/repodigest/internal/application"
	"github.com/mkallio/repodigest/internal/config"
	"github.com/mkallio/repodigest/internal/domain/model"
	"github.com/mkallio/repodigest/internal/render"
)

var version = "dev"

var (
	verbose    bool
	configPath string

	useCache    bool
	dryRun      bool
	startDate   string
	outputPath  string
	contentPath string
	htmlPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "repodigest",
	Short:   "Periodic GitHub repository activity digests",
	Long:    "repodigest collects a repository's recent pull request, issue, release and discussion activity, summarizes it with an LLM, and posts the digest as a GitHub Discussion.",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "repodigest.yaml", "Path to config file")

	for _, cmd := range []*cobra.Command{runCmd, reportCmd} {
		cmd.Flags().BoolVar(&useCache, "cache", false, "Enable the persistent GraphQL query cache")
		cmd.Flags().StringVar(&startDate, "start", "", "Override the window start date (yyyy-mm-dd)")
		cmd.Flags().StringVar(&contentPath, "output-content", "", "Write the rendered activity report to a file ('-' for stdout)")
	}
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate the digest but do not post it")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the AI summary to a file ('-' for stdout)")
	runCmd.Flags().StringVar(&htmlPath, "output-html", "", "Write a sanitized HTML preview of the digest to a file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate, summarize, and post a digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), true)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate and print the activity report without calling the LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), false)
	},
}

func run(parent context.Context, summarize bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gh := githubadapter.NewClient(cfg.GitHubToken)
	if useCache {
		qc, err := cache.NewSQLiteCache(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := qc.Close(); closeErr != nil {
				slog.Error("error closing query cache", "error", closeErr)
			}
		}()
		gh = gh.WithQueryCache(qc, cfg.Cache.TTL)
		slog.Info("query cache enabled", "path", cfg.Cache.Path, "ttl", cfg.Cache.TTL)
	}

	login, err := gh.ValidateToken(ctx)
	if err != nil {
		return err
	}
	slog.Debug("github token validated", "login", login)

	var start time.Time
	if startDate != "" {
		start, err = time.ParseInLocation(time.DateOnly, startDate, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --start date %q: %w", startDate, err)
		}
	}

	policy := application.Policy{
		WindowStep:     cfg.Window.Step(),
		MinItems:       cfg.Window.MinItems,
		MinEngagements: cfg.Window.MinEngagements,
	}
	repo := model.RepoRef{Owner: cfg.Owner(), Name: cfg.Name()}
	service := application.NewReportService(gh, policy, cfg.Category)

	report, err := service.BuildReport(ctx, repo, start)
	if errors.Is(err, application.ErrInsufficientContent) {
		slog.Info("not enough content to summarize, no digest produced")
		return nil
	}
	if err != nil {
		return err
	}

	activityReport, err := render.Report(cfg.ProjectName, report)
	if err != nil {
		return err
	}
	if contentPath != "" {
		if err := writeOutput(activityReport, contentPath); err != nil {
			return err
		}
	}

	if !summarize {
		if contentPath == "" {
			fmt.Println(activityReport)
		}
		return nil
	}

	return summarizeAndPost(ctx, cfg, gh, repo, report, activityReport)
}

func summarizeAndPost(
	ctx context.Context,
	cfg *config.Config,
	gh *githubadapter.Client,
	repo model.RepoRef,
	report *model.Report,
	activityReport string,
) error {
	var priorTexts []string
	for _, prior := range report.PriorSummaries {
		priorTexts = append(priorTexts, prior.Title+"\n\n"+render.StripFooterTail(prior.Body))
	}

	prompt, err := render.Prompt(cfg.ProjectName, report.Window.Start, report.Window.DisplayEnd(), activityReport, priorTexts)
	if err != nil {
		return err
	}

	provider := llm.NewOpenRouterProvider(cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKey())
	response, err := provider.Summarize(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}

	title, summary := render.SplitTitle(response)
	body, err := render.ComposeSummaryBody(summary, report.Window, provider.Model())
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := writeOutput(body, outputPath); err != nil {
			return err
		}
	}
	if htmlPath != "" {
		if err := writeOutput(render.HTML(body), htmlPath); err != nil {
			return err
		}
	}

	switch {
	case cfg.Category == "":
		slog.Info("no discussion category configured, digest not posted")
	case dryRun:
		slog.Info("dry run: digest not posted", "title", title)
	default:
		categoryID, err := gh.FindDiscussionCategory(ctx, repo, cfg.Category)
		if err != nil {
			return fmt.Errorf("looking up discussion category: %w", err)
		}
		if categoryID == "" {
			categoryID, err = gh.CreateDiscussionCategory(ctx, repo, cfg.Category)
			if err != nil {
				return fmt.Errorf("creating discussion category %q: %w", cfg.Category, err)
			}
		}
		url, err := gh.CreateDiscussion(ctx, repo, categoryID, title, body)
		if err != nil {
			return fmt.Errorf("posting digest: %w", err)
		}
		slog.Info("digest posted", "url", url)
	}

	return nil
}

// writeOutput writes content to a file, or to stdout when path is "-".
func writeOutput(content, path string) error {
	if path == "-" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Info("content written", "path", path)
	return nil
}
