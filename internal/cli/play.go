package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/archive"
	"kusafe-quiz-client/internal/config"
	"kusafe-quiz-client/internal/domain"
	"kusafe-quiz-client/internal/meta"
	"kusafe-quiz-client/internal/session"
)

// NewPlayCmd builds the subcommand that plays one quiz attempt in the
// terminal.
func NewPlayCmd(configPath, apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play <quiz-id>",
		Short: "Play a timed quiz attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *apiURL, args[0])
		},
	}
}

func runPlay(ctx context.Context, configPath, apiURL, quizID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store := buildStore(cfg)
	client, tokens := buildClient(cfg, apiURL, store)

	notifier := &timeoutNotifier{}
	driver := session.NewDriver(session.Config{
		API:           client,
		Store:         store,
		Tokens:        tokens,
		QuizID:        quizID,
		TickInterval:  config.Duration(cfg.Play.TickInterval, 100*time.Millisecond),
		FeedbackDelay: config.Duration(cfg.Play.FeedbackDelay, 520*time.Millisecond),
		OnTick:        notifier.observe,
	})
	defer driver.Close()

	if err := driver.Bootstrap(ctx); err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			fmt.Println("You are not logged in. Run `kusafe-quiz login` first.")
			return err
		}
		fmt.Printf("Could not start the quiz: %v\n", err)
		return err
	}

	// Quiz metadata only sizes the progress row; ignore failures.
	metaCache := meta.NewCache(client, config.Duration(cfg.Meta.TTL, 10*time.Minute))
	if m, err := metaCache.QuizMeta(ctx, quizID); err == nil {
		driver.SetTotalQuestions(m.QuestionsCount)
	}

	input := bufio.NewScanner(os.Stdin)
	for {
		snap := driver.Snapshot()
		if snap.Phase == session.PhaseTerminal {
			break
		}
		if !snap.HasQuestion {
			break
		}

		printQuestion(snap)

		choice, ok := readChoice(input, len(snap.Question.Options))
		if !ok {
			// stdin closed; leave the attempt resumable.
			return nil
		}
		optionID := snap.Question.Options[choice-1].ID

		if err := driver.Submit(ctx, optionID); err != nil {
			if errors.Is(err, domain.ErrTerminal) {
				break
			}
			if errors.Is(err, domain.ErrLocked) {
				continue
			}
			// Same question and token stay live; let the user retry.
			fmt.Printf("Could not submit the answer: %v\n", err)
			continue
		}

		printFeedback(driver.Snapshot(), snap.Question.Order)
	}

	bundle, err := session.LoadResult(store, quizID)
	if err != nil {
		fmt.Println("No stored result for this quiz. Check the quiz page.")
		return nil
	}
	printResult(bundle)

	if entries, err := client.Leaderboard(ctx, quizID); err == nil && len(entries) > 0 {
		printLeaderboard(entries)
	}

	if cfg.Postgres.URL != "" {
		archiveResult(ctx, cfg.Postgres.URL, quizID, driver.Snapshot().AttemptID, bundle)
	}
	return nil
}

func archiveResult(ctx context.Context, url, quizID, attemptID string, bundle session.ResultBundle) {
	store := archive.Connect(url)
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		log.Printf("archive migrate failed: %v", err)
		return
	}
	if err := store.Save(ctx, quizID, attemptID, bundle); err != nil {
		log.Printf("archive save failed: %v", err)
	}
}

func printQuestion(snap session.Snapshot) {
	q := snap.Question
	fmt.Println()
	if snap.TotalQuestions > 0 {
		fmt.Printf("Question %d of %d", q.Order+1, snap.TotalQuestions)
	} else {
		fmt.Printf("Question %d", q.Order+1)
	}
	fmt.Printf("  (%d points, %ds left)\n", q.Points, int(snap.Remaining/time.Second))
	fmt.Println(session.SupportPhrase(q.ID))
	fmt.Println()
	fmt.Println(q.Text)
	for i, option := range q.Options {
		fmt.Printf("  %d) %s\n", i+1, option.Text)
	}
}

func readChoice(input *bufio.Scanner, optionCount int) (int, bool) {
	for {
		fmt.Printf("answer [1-%d]: ", optionCount)
		if !input.Scan() {
			return 0, false
		}
		choice, err := strconv.Atoi(strings.TrimSpace(input.Text()))
		if err == nil && choice >= 1 && choice <= optionCount {
			return choice, true
		}
		fmt.Println("Pick one of the listed options.")
	}
}

func printFeedback(snap session.Snapshot, order int) {
	outcome, ok := snap.Answers[order]
	if !ok {
		return
	}
	if outcome == domain.OutcomeCorrect {
		fmt.Println("✓ correct")
	} else {
		fmt.Println("✗ wrong")
	}
}

// timeoutNotifier prints the time's-up note once per question.
type timeoutNotifier struct {
	mu       sync.Mutex
	notified map[int]bool
}

func (n *timeoutNotifier) observe(tick session.Tick) {
	if !tick.TimedOut {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.notified == nil {
		n.notified = make(map[int]bool)
	}
	if n.notified[tick.QuestionOrder] {
		return
	}
	n.notified[tick.QuestionOrder] = true
	fmt.Println("\nTime's up! Pick any option to see your result.")
}
