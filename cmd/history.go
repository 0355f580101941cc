package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Emily9121/WifeyMOOC/internal/question"
	"github.com/Emily9121/WifeyMOOC/internal/questionset"
	"github.com/Emily9121/WifeyMOOC/internal/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/response"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent answer attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		file, _ := cmd.Flags().GetString("file")
		if file != "" {
			abs, err := filepath.Abs(file)
			if err != nil {
				return fmt.Errorf("resolve question set path: %w", err)
			}
			file = abs
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryAttempts(ctx, store.QueryOpts{Limit: limit, QuestionFile: file})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-20s  %-5s  %-22s  %-2s  %s\n",
			"Seq", "Timestamp", "Set", "Q", "Kind", "OK", "Answer")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Correct {
				ok = "✗"
			}
			fmt.Printf("%-6d  %-19s  %-20s  %-5s  %-22s  %-2s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(filepath.Base(e.QuestionFile), 20),
				displayKey(e.QuestionKey),
				e.Kind,
				ok,
				truncate(formatAnswer(e.UserAnswer), 40),
			)
		}
		return nil
	},
}

var historySessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent quiz sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessions(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-5s  %-24s  %-9s  %s\n", "Timestamp", "Event", "Set", "Score", "Duration")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range events {
			score, duration := "", ""
			if e.Action == store.SessionEnd {
				score = fmt.Sprintf("%d/%d", e.Score, e.Total)
				duration = fmt.Sprintf("%d:%02d", e.DurationSecs/60, e.DurationSecs%60)
			}
			fmt.Printf("%-19s  %-5s  %-24s  %-9s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Action,
				truncate(filepath.Base(e.QuestionFile), 24),
				score,
				duration,
			)
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats <questions>",
	Short: "Show per-question accuracy for a question set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve question set path: %w", err)
		}
		set, err := questionset.Load(abs)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		repo := s.EventRepo()

		fmt.Println(set.Title)
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-5s  %-24s  %-30s  %8s  %8s\n", "Q", "Kind", "Prompt", "Attempts", "Accuracy")
		fmt.Println(strings.Repeat("─", 72))
		for _, key := range scoreKeys(set) {
			st, err := repo.QuestionStats(ctx, abs, key.key)
			if err != nil {
				return err
			}
			accuracy := "-"
			if st.Attempts > 0 {
				accuracy = fmt.Sprintf("%.0f%%", st.Accuracy()*100)
			}
			fmt.Printf("%-5s  %-24s  %-30s  %8d  %8s\n",
				displayKey(key.key), key.kind, truncate(key.prompt, 30), st.Attempts, accuracy)
		}
		return nil
	},
}

type scoreKey struct {
	key    string
	kind   string
	prompt string
}

// scoreKeys lists the scoring units of a set: one per question, or one per
// nested question of a block.
func scoreKeys(set *questionset.Set) []scoreKey {
	var keys []scoreKey
	for i, q := range set.Questions {
		key := quiz.Key(i)
		if block, ok := q.Payload.(question.MultiQuestions); ok {
			for j, nested := range block.Questions {
				keys = append(keys, scoreKey{key: response.PartKey(key, j), kind: string(nested.Kind), prompt: nested.Prompt})
			}
			continue
		}
		if !q.Kind.Known() {
			continue
		}
		keys = append(keys, scoreKey{key: key, kind: string(q.Kind), prompt: q.Prompt})
	}
	return keys
}

func displayKey(k string) string {
	head, tail, nested := strings.Cut(k, "-")
	var n int
	if _, err := fmt.Sscanf(head, "%d", &n); err != nil {
		return k
	}
	if !nested {
		return fmt.Sprint(n + 1)
	}
	var m int
	if _, err := fmt.Sscanf(tail, "%d", &m); err != nil {
		return k
	}
	return fmt.Sprintf("%d.%d", n+1, m+1)
}

func formatAnswer(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	historyCmd.PersistentFlags().IntP("limit", "n", 20, "Number of rows to show")
	historyCmd.Flags().StringP("file", "f", "", "Only show attempts for this question set")

	historyCmd.AddCommand(historySessionsCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
