// In file: cmd/weather-agent/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dileep-u-k/weather-agent/internal/llm"
	"github.com/dileep-u-k/weather-agent/internal/tools"
)

// main is the entry point for the application. Configuration, wiring and the
// choice of surface (interactive loop, HTTP server, history) happen in the
// cobra commands below.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		overrides  Overrides
		listModels bool
		listTools  bool
	)

	loadConfig := func() (*Config, error) {
		cfg, err := LoadConfig(overrides)
		if err != nil {
			return nil, err
		}
		setupLogging(cfg.LogLevel)
		return cfg, nil
	}

	root := &cobra.Command{
		Use:          "weather-agent",
		Short:        "Answer weather questions and suggest something to do",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case listModels:
				printModels(out, cfg.Catalog())
				return nil
			case listTools:
				printTools(out, newRegistry(nil, nil, nil))
				return nil
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runInteractive(cmd.Context(), cfg, cmd.InOrStdin(), out)
		},
	}

	root.PersistentFlags().StringVar(&overrides.Provider, "provider", "", "LLM provider (together, openrouter, openai, mistral, anthropic, gemini)")
	root.PersistentFlags().StringVar(&overrides.Model, "model", "", "LLM model ID")
	root.PersistentFlags().StringVar(&overrides.WeatherProvider, "weather-provider", "", "weather backend (openweather, weatherapi)")
	root.Flags().BoolVar(&listModels, "list-models", false, "list the known models with their prices and exit")
	root.Flags().BoolVar(&listTools, "list-tools", false, "list the registered tools and exit")

	root.AddCommand(newServeCmd(loadConfig), newHistoryCmd(loadConfig), newVersionCmd())
	return root
}

func newServeCmd(loadConfig func() (*Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			info := GetBuildInfo()
			log.Info().Str("version", info.Version).Str("commit", info.GitCommit).Msg("🚀 Starting Weather Agent server")

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			gin.SetMode(os.Getenv("GIN_MODE"))
			handler := NewQueryHandler(app.Agent, app.Registry)
			srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: handler.Routes()}
			return runServerWithGracefulShutdown(srv)
		},
	}
}

func newHistoryCmd(loadConfig func() (*Config, error)) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent logged interactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			interactions, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer interactions.Close()

			recent, err := interactions.Recent(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintln(out, "No interactions logged yet.")
				return nil
			}
			for _, in := range recent {
				fmt.Fprintf(out, "[%s] (%s) %s\n%s\n\n", in.Timestamp.Local().Format(time.DateTime), in.Outcome, in.Query, in.Response)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of interactions to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			info := GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "weather-agent %s (commit %s, built %s, %s, %s, components %s)\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform, info.Components)
		},
	}
}

// runInteractive reads queries line by line until "exit" or end of input.
func runInteractive(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Fprintf(out, "\nUsing LLM Model: %s via %s\n", app.Model.ID, cfg.LLMProvider)
	fmt.Fprintln(out, "\nWeather Agent Ready!")
	fmt.Fprintln(out, "Type 'exit' to quit, or ask about the weather.")
	fmt.Fprintln(out, "Example: 'What's the weather in Tokyo?'")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") {
			break
		}
		fmt.Fprintf(out, "\nAgent: %s\n", app.Agent.ProcessQuery(ctx, query))
	}

	fmt.Fprintln(out, "\nFinal Usage Statistics:")
	printSummary(out, app.Agent.Ledger().Summary(true))
	fmt.Fprintln(out, "\nThank you for using the Weather Agent! Goodbye.")
	return scanner.Err()
}

func setupLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func printModels(out io.Writer, catalog *llm.Catalog) {
	fmt.Fprintln(out, "\nAvailable LLM models:")
	for _, m := range catalog.List() {
		fmt.Fprintf(out, "→ %s [%s] ($%.5f/1K input, $%.5f/1K output) %s\n", m.ID, m.Provider, m.InputCostPer1K, m.OutputCostPer1K, m.Description)
	}
}

func printTools(out io.Writer, registry *tools.Registry) {
	fmt.Fprintln(out, "\nAvailable Tools:")
	fmt.Fprintln(out, "===============")
	for _, d := range registry.List() {
		fmt.Fprintf(out, "\n→ %s\n", d.Name)
		fmt.Fprintf(out, "  Description: %s\n", d.Description)
		fmt.Fprintf(out, "  Category: %s\n", d.Category)
		fmt.Fprintln(out, "  Parameters:")
		required := make(map[string]bool, len(d.Required))
		for _, r := range d.Required {
			required[r] = true
		}
		for _, name := range sortedKeys(d.Parameters) {
			label := "optional"
			if required[name] {
				label = "required"
			}
			fmt.Fprintf(out, "    - %s (%s, %s): %s\n", name, d.Parameters[name].Type, label, d.Parameters[name].Description)
		}
	}
}

func printSummary(out io.Writer, s llm.Summary) {
	fmt.Fprintf(out, "Session duration: %s\n", s.Duration.Round(time.Second))
	fmt.Fprintf(out, "Total LLM calls: %d\n", s.TotalCalls)
	fmt.Fprintf(out, "Total tokens: %d (%d input, %d output)\n", s.TotalInputTokens+s.TotalOutputTokens, s.TotalInputTokens, s.TotalOutputTokens)
	fmt.Fprintf(out, "Total cost: $%.5f\n", s.TotalCost)
	for _, op := range s.Operations() {
		t := s.ByOperation[op]
		fmt.Fprintf(out, "  %-16s %3d calls  %6d tokens  $%.5f\n", op, t.Calls, t.InputTokens+t.OutputTokens, t.Cost)
	}
}

func sortedKeys(m map[string]*tools.JSONSchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
