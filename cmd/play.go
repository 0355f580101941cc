package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Emily9121/WifeyMOOC/internal/app"
	"github.com/Emily9121/WifeyMOOC/internal/llm"
	"github.com/Emily9121/WifeyMOOC/internal/media"
	"github.com/Emily9121/WifeyMOOC/internal/questionset"
	"github.com/Emily9121/WifeyMOOC/internal/quiz"
	quizscreen "github.com/Emily9121/WifeyMOOC/internal/screens/quiz"
	"github.com/Emily9121/WifeyMOOC/internal/store"
	"github.com/Emily9121/WifeyMOOC/internal/tutor"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <questions>",
	Short: "Run a quiz from a JSON or YAML question set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args[0])
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("resume", false, "Resume from the saved progress of this question set")
	cmd.Flags().String("progress", "", "Progress file (default <questions>.progress.json)")
	cmd.Flags().Bool("no-ai", false, "Disable AI explanations even when a provider is configured")
}

func runPlay(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve question set path: %w", err)
	}
	set, err := questionset.Load(abs)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctl := quiz.New()
	if err := ctl.LoadQuestions(abs, set.BaseDir, set.Questions); err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	progressPath, _ := cmd.Flags().GetString("progress")
	if progressPath == "" {
		progressPath = quiz.DefaultProgressPath(abs)
	}

	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		snap, found, err := findSnapshot(ctx, progressPath, st.SnapshotRepo(), abs)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "warning: %v; starting from the beginning\n", err)
		case !found:
			fmt.Fprintln(os.Stderr, "warning: no saved progress found; starting from the beginning")
		default:
			if err := ctl.Restore(snap, quiz.SourceFunc(questionset.LoadSpecs)); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v; starting from the beginning\n", err)
			}
		}
	}

	deps := quizscreen.Deps{
		Controller:   ctl,
		Title:        set.Title,
		ProgressPath: progressPath,
		Events:       st.EventRepo(),
		Snapshots:    st.SnapshotRepo(),
		Media:        media.NewResolver(ctl.BaseDir()),
	}
	if noAI, _ := cmd.Flags().GetBool("no-ai"); !noAI {
		deps.Tutor = newTutor(ctx, st.EventRepo())
	}

	return app.Run(quizscreen.New(deps))
}

// findSnapshot prefers the progress file and falls back to the latest
// store snapshot of the question set.
func findSnapshot(ctx context.Context, progressPath string, repo store.SnapshotRepo, questionFile string) (quiz.Snapshot, bool, error) {
	snap, err := quiz.LoadFile(progressPath)
	if err == nil {
		return snap, true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return quiz.Snapshot{}, false, err
	}

	stored, err := repo.Latest(ctx, questionFile)
	if err != nil {
		return quiz.Snapshot{}, false, fmt.Errorf("load stored progress: %w", err)
	}
	if stored == nil {
		return quiz.Snapshot{}, false, nil
	}
	if err := json.Unmarshal(stored.Data, &snap); err != nil {
		return quiz.Snapshot{}, false, fmt.Errorf("parse stored progress: %w", err)
	}
	return snap, true, nil
}

// newTutor builds the explanation service, or returns nil when no LLM
// provider is configured.
func newTutor(ctx context.Context, repo store.EventRepo) *tutor.Service {
	provider, err := llm.NewProviderFromEnv(ctx, repo)
	if errors.Is(err, llm.ErrDisabled) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "warning: AI explanations will be unavailable.")
		return nil
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}
