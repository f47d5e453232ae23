package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/unified-personal-site-admin/config"
	"github.com/rpupo63/unified-personal-site-admin/services"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// app carries what every subcommand needs once settings are resolved.
type app struct {
	configPath string
	baseURL    string
	settings   config.Settings
	client     *services.ProjectAPIClient
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "project-admin",
		Short:         "Create and edit portfolio projects",
		Long:          "project-admin serves the project form and talks to the portfolio project API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.baseURL, "api-base-url", "", "project API origin (overrides API_BASE_URL)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newCreateCmd(a))
	cmd.AddCommand(newEditCmd(a))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "project-admin %s (commit: %s)\n", Version, Commit)
		},
	}
}

// load reads .env, the optional config file and the environment, then builds the API client.
func (a *app) load(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	env := config.New()
	if a.baseURL != "" {
		env["API_BASE_URL"] = a.baseURL
	}

	settings, err := config.Load(env, a.configPath)
	if err != nil {
		return err
	}
	configureLogging(settings.LogLevel)

	if settings.APIBaseURLSSMParam != "" {
		ssmClient, err := config.NewSSMClient(ctx, config.GetString(env, "AWS_REGION", settings.S3.Region))
		if err != nil {
			return err
		}
		if settings, err = config.ResolveSSM(ctx, settings, ssmClient); err != nil {
			return err
		}
	}

	a.settings = settings
	a.client = services.NewProjectAPIClient(settings.APIBaseURL, services.WithTimeout(settings.APITimeout()))
	return nil
}

func configureLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func execute(cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
