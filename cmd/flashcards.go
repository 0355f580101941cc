package cmd

import (
	"fmt"

	"github.com/Emily9121/WifeyMOOC/internal/app"
	"github.com/Emily9121/WifeyMOOC/internal/deck"
	"github.com/Emily9121/WifeyMOOC/internal/leitner"
	"github.com/Emily9121/WifeyMOOC/internal/screens/flashcards"
	"github.com/spf13/cobra"
)

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <deck>",
	Short: "Review a flashcard deck with Leitner boxes",
	Long:  "Review the due cards of a JSON, YAML or KDE Parley (.kvtml) deck.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := deck.Load(args[0])
		if err != nil {
			return err
		}

		progressPath, _ := cmd.Flags().GetString("progress")
		if progressPath == "" {
			progressPath = leitner.ProgressPath(args[0])
		}
		saved, err := leitner.LoadProgress(progressPath)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		size, _ := cmd.Flags().GetInt("size")
		sess := leitner.NewSession(d.Cards, saved)
		sess.Start(size)
		if sess.Total() == 0 {
			fmt.Println("No cards are due. Come back later.")
			return nil
		}

		return app.Run(flashcards.New(flashcards.Deps{
			Session:      sess,
			Deck:         d.Title,
			ProgressPath: progressPath,
			Events:       st.EventRepo(),
		}))
	},
}

func init() {
	flashcardsCmd.Flags().IntP("size", "n", leitner.DefaultSessionSize, "Maximum number of cards to review")
	flashcardsCmd.Flags().String("progress", "", "Progress file (default <deck>.progress.json)")
}
