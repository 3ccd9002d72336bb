package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/weekly-commits/internal/config"
	"github.com/naka-gawa/weekly-commits/internal/domain"
	"github.com/naka-gawa/weekly-commits/internal/gateway"
	"github.com/naka-gawa/weekly-commits/internal/render"
	"github.com/naka-gawa/weekly-commits/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Lists this week's commit messages per repository",
	Long: `Searches the commits the user authored since Monday, then lists the commit
messages on each touched repository's default branch between Monday and Sunday.

The token is read from GITHUB_TOKEN and the user from USERNAME (or GITHUB_USER),
either of which may be set in a .env file.`,
	SilenceUsage: true,
	RunE:         runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	// Inject dependencies and run the main business logic.
	httpClient, err := gateway.NewHTTPClient(cfg.Token, cfg.Timeout, logger)
	if err != nil {
		return err
	}
	githubGateway, err := gateway.NewGitHubGateway(httpClient, cfg.BaseURL, cfg.MaxPages, logger)
	if err != nil {
		return err
	}
	var resolver gateway.BranchResolver = githubGateway
	if cfg.BranchResolver == config.ResolverGraphQL {
		endpoint, err := cfg.GraphQLEndpoint()
		if err != nil {
			return err
		}
		resolver = gateway.NewGraphQLBranchResolver(httpClient, endpoint, logger)
	}
	reporter := usecase.NewReporter(githubGateway, resolver, logger)

	report := reporter.Run(cmd.Context(), usecase.Request{
		User:          cfg.Username,
		Branch:        cfg.Branch,
		TimestampMode: cfg.TimestampMode,
	})
	return render.Render(cmd.OutOrStdout(), report, cfg.Format, cfg.Summary)
}

// newLogger logs warnings to w, or everything down to debug when verbose.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadConfig builds the run configuration from defaults, the environment and flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnv(&cfg, envFile); err != nil {
		return cfg, err
	}

	// Get the verbose flag from the root command.
	cfg.Verbose, _ = cmd.InheritedFlags().GetBool("verbose")
	flags := cmd.Flags()
	if flags.Changed("user") {
		cfg.Username, _ = flags.GetString("user")
	}
	if flags.Changed("api-url") {
		cfg.BaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("graphql-url") {
		cfg.GraphQLURL, _ = flags.GetString("graphql-url")
	}
	cfg.Branch, _ = flags.GetString("branch")
	cfg.MaxPages, _ = flags.GetInt("max-pages")
	cfg.Timeout, _ = flags.GetDuration("timeout")
	cfg.BranchResolver, _ = flags.GetString("branch-resolver")
	cfg.Summary, _ = flags.GetBool("summary")
	mode, _ := flags.GetString("timestamps")
	cfg.TimestampMode = domain.TimestampMode(mode)
	format, _ := flags.GetString("format")
	cfg.Format = render.Format(format)

	return cfg, cfg.Validate()
}

func init() {
	rootCmd.AddCommand(reportCmd)
	defaults := config.Default()
	reportCmd.Flags().StringP("user", "u", "", "Target GitHub user name (default $USERNAME)")
	reportCmd.Flags().String("env-file", "", "Path to a .env file (default ./.env if present)")
	reportCmd.Flags().String("api-url", "", "GitHub REST API base URL (default $GITHUB_API_URL or "+defaults.BaseURL+")")
	reportCmd.Flags().String("graphql-url", "", "GitHub GraphQL endpoint (default $GITHUB_GRAPHQL_URL, else derived from the API URL)")
	reportCmd.Flags().String("branch", defaults.Branch, "Branch hint, used only when it is the repository's default branch")
	reportCmd.Flags().Int("max-pages", defaults.MaxPages, "Maximum number of pages fetched per listing")
	reportCmd.Flags().Duration("timeout", defaults.Timeout, "Timeout for each HTTP request")
	reportCmd.Flags().String("timestamps", string(defaults.TimestampMode), "How week bounds are sent: utc or legacy (local wall clock labelled as UTC)")
	reportCmd.Flags().String("branch-resolver", defaults.BranchResolver, "API used to resolve default branches: rest or graphql")
	reportCmd.Flags().StringP("format", "f", string(defaults.Format), "Output format: text, table or json")
	reportCmd.Flags().Bool("summary", false, "Append commit totals to the report")
}
