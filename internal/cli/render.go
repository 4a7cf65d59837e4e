package cli

import (
	"fmt"
	"time"

	"kusafe-quiz-client/internal/domain"
	"kusafe-quiz-client/internal/session"
)

func printResult(bundle session.ResultBundle) {
	finished := bundle.Finished
	fmt.Println()
	fmt.Printf("Quiz finished: %s\n", finished.Reason)
	fmt.Printf("Score:   %d / %d\n", finished.Score, finished.MaxScore)
	fmt.Printf("Correct: %d / %d\n", finished.CorrectAnswers, finished.TotalQuestions)
	fmt.Printf("Time:    %s\n", (time.Duration(finished.TotalTimeMs) * time.Millisecond).Round(time.Second))

	outcomes := bundle.Outcomes()
	if len(outcomes) == 0 {
		return
	}
	fmt.Print("Answers: ")
	for _, outcome := range outcomes {
		if outcome == domain.OutcomeCorrect {
			fmt.Print("✓")
		} else {
			fmt.Print("✗")
		}
	}
	fmt.Println()
}

func printLeaderboard(entries []domain.LeaderboardEntry) {
	fmt.Println()
	fmt.Println("Leaderboard")
	for _, entry := range entries {
		fmt.Printf("  %2d. %-20s %5d pts  %s\n",
			entry.Place,
			entry.DisplayName,
			entry.Score,
			(time.Duration(entry.TotalTimeMs) * time.Millisecond).Round(time.Second))
	}
}
