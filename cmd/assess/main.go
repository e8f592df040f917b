package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"course-advisor/internal/config"
	"course-advisor/internal/domain"
	"course-advisor/internal/repository"
	"course-advisor/internal/service"
)

// Interactive terminal assessment against file catalogs. Useful for catalog
// authoring and for trying tuning knobs without a running server.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.QuestionCatalogPath == "" || cfg.CourseCatalogPath == "" {
		log.Fatal("QUESTION_CATALOG_PATH and COURSE_CATALOG_PATH must be set")
	}

	logger := zap.NewNop()

	questions, err := repository.LoadQuestionsFile(cfg.QuestionCatalogPath)
	if err != nil {
		log.Fatal(err)
	}
	courses, err := repository.LoadCoursesFile(cfg.CourseCatalogPath)
	if err != nil {
		log.Fatal(err)
	}
	aliases, err := repository.LoadTraitAliasesFile(cfg.TraitAliasPath)
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := service.NewCatalog(questions, courses, service.NewTraitNormalizer(aliases))
	if err != nil {
		log.Fatal(err)
	}

	store := service.NewMemorySessionStore(time.Hour)
	scorer := service.NewScoringEngine(catalog, service.DefaultScoringConfig())
	svc := service.NewAssessmentService(catalog, store, scorer, nil, nil, logger)

	maxQuestions := cfg.DefaultMaxQuestions
	if maxQuestions > catalog.QuestionCount() {
		maxQuestions = catalog.QuestionCount()
	}

	start, err := svc.StartSession(ctx, "", maxQuestions)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Assessment started (%d questions max). Type an option number, or 'finish' to end early.\n\n", maxQuestions)

	question := start.FirstQuestion
	for {
		fmt.Printf("[%s] %s\n", question.Category, question.Prompt)
		for i, opt := range question.Options {
			fmt.Printf("  %d) %s\n", i+1, opt.Text)
		}
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		if strings.EqualFold(line, "finish") {
			results, err := svc.FinishEarly(ctx, start.SessionID)
			if err != nil {
				fmt.Printf("cannot finish yet: %v\n\n", err)
				continue
			}
			printResults(results)
			return
		}

		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > len(question.Options) {
			fmt.Println("pick a listed option number")
			continue
		}

		answer, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[choice-1].ID)
		if err != nil {
			fmt.Printf("answer rejected: %v\n", err)
			continue
		}
		if answer.Complete {
			printResults(answer.Results)
			return
		}
		question = *answer.NextQuestion
		fmt.Println()
	}
}

func printResults(results *domain.RecommendationResult) {
	fmt.Printf("\nRecommendations (confidence %.0f%%, %d traits discovered):\n",
		results.Confidence, results.TraitsDiscovered)
	limit := 10
	if limit > len(results.Matches) {
		limit = len(results.Matches)
	}
	for i, match := range results.Matches[:limit] {
		fmt.Printf("  %2d. %-40s %5.1f%%", i+1, match.CourseName, match.Score)
		if len(match.MatchedTraits) > 0 {
			fmt.Printf("  (%s)", strings.Join(match.MatchedTraits, ", "))
		}
		fmt.Println()
	}
}
