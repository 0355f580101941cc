package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/llm"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the AI explanation provider and its requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryLLMRequests(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

type usage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	latencyMs    int64
}

func (u usage) AvgLatencyMs() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.latencyMs / int64(u.Calls)
}

// aggregateUsage groups events by key, ordered by call count.
func aggregateUsage(events []store.LLMRequestEvent, key func(store.LLMRequestEvent) string) []usage {
	byKey := make(map[string]*usage)
	for _, e := range events {
		k := key(e)
		u, ok := byKey[k]
		if !ok {
			u = &usage{Key: k}
			byKey[k] = u
		}
		u.Calls++
		if !e.Success {
			u.Failures++
		}
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		u.latencyMs += e.LatencyMs
	}
	out := make([]usage, 0, len(byKey))
	for _, u := range byKey {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Key < out[j].Key
	})
	return out
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryLLMRequests(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		printUsage("Usage by Purpose", "Purpose", aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Purpose }))
		fmt.Println()
		printUsage("Usage by Model", "Model", aggregateUsage(events, func(e store.LLMRequestEvent) string {
			return e.Provider + "/" + e.Model
		}))
		return nil
	},
}

func printUsage(title, label string, rows []usage) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-28s  %6s  %6s  %10s  %10s  %8s\n",
		label, "Calls", "Failed", "Input", "Output", "Avg Ms")
	fmt.Println(strings.Repeat("─", 80))

	var totalCalls, totalIn, totalOut int
	for _, u := range rows {
		fmt.Printf("%-28s  %6d  %6d  %10d  %10d  %8d\n",
			truncate(u.Key, 28), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs())
		totalCalls += u.Calls
		totalIn += u.InputTokens
		totalOut += u.OutputTokens
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-28s  %6d  %6s  %10d  %10d\n", "TOTAL", totalCalls, "", totalIn, totalOut)
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the provider selected from the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if !cfg.Enabled() {
			fmt.Println("Provider:  none (AI explanations disabled)")
			fmt.Println("Set WIFEYMOOC_LLM_PROVIDER or an API key to enable them.")
			return nil
		}
		fmt.Printf("Provider:  %s\n", cfg.Provider)
		switch cfg.Provider {
		case llm.ProviderAnthropic:
			fmt.Printf("Model:     %s\n", cfg.Anthropic.Model)
		case llm.ProviderOpenAI, llm.ProviderOpenRouter:
			fmt.Printf("Model:     %s\n", cfg.OpenAI.Model)
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL:  %s\n", cfg.OpenAI.BaseURL)
			}
		case llm.ProviderGemini:
			fmt.Printf("Model:     %s\n", cfg.Gemini.Model)
		}
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Problem:   %v\n", err)
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explanation)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmConfigCmd)
}
