package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"course-advisor/internal/config"
	"course-advisor/internal/db"
	"course-advisor/internal/domain"
	apihttp "course-advisor/internal/http"
	"course-advisor/internal/repository"
	"course-advisor/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	questions, courses, aliases, attemptRepo, academicRepo, err := loadCatalogs(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("catalog load", zap.Error(err))
	}

	normalizer := service.NewTraitNormalizer(aliases)
	catalog, err := service.NewCatalog(questions, courses, normalizer)
	if err != nil {
		// Empty or malformed catalogs are fatal: refuse to start.
		logger.Fatal("catalog invalid", zap.Error(err))
	}

	idleTTL := time.Duration(cfg.SessionIdleTTLMinutes) * time.Minute
	store := service.NewMemorySessionStore(idleTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory session store", zap.Error(err))
		} else {
			store = service.NewRedisSessionStore(redisClient, idleTTL)
		}
		cancel()
	}

	scoringCfg := service.DefaultScoringConfig()
	if len(cfg.TraitRankWeights) > 0 {
		scoringCfg.RankWeights = cfg.TraitRankWeights
	}
	scoringCfg.GapWeight = cfg.ConfidenceGapWeight
	scoringCfg.QuestionWeight = cfg.ConfidenceQuestionWeight
	scorer := service.NewScoringEngine(catalog, scoringCfg)

	assessSvc := service.NewAssessmentService(catalog, store, scorer, attemptRepo, academicRepo, logger)
	assessHandler := apihttp.NewAssessmentHandler(logger, assessSvc)
	router := apihttp.NewRouter(logger, assessHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("questions", catalog.QuestionCount()),
		zap.Int("courses", len(catalog.Courses())),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// loadCatalogs reads questions, courses and trait aliases from Postgres when
// DATABASE_URL is set, falling back to file catalogs otherwise. The attempt
// sink and academic lookup only exist in database mode.
func loadCatalogs(ctx context.Context, cfg *config.Config, logger *zap.Logger) (
	[]domain.Question, []domain.Course, map[string]string,
	repository.AttemptRepository, repository.AcademicRepository, error,
) {
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}

		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := db.Ping(loadCtx, pool); err != nil {
			return nil, nil, nil, nil, nil, err
		}

		questions, err := repository.NewPgQuestionRepository(pool).ListAll(loadCtx)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		courses, err := repository.NewPgCourseRepository(pool).ListAll(loadCtx)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		aliases, err := repository.NewPgTraitAliasRepository(pool).ListAll(loadCtx)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		return questions, courses, aliases,
			repository.NewPgAttemptRepository(pool),
			repository.NewPgAcademicRepository(pool),
			nil
	}

	logger.Info("no DATABASE_URL configured, loading file catalogs",
		zap.String("questions", cfg.QuestionCatalogPath),
		zap.String("courses", cfg.CourseCatalogPath),
	)
	questions, err := repository.LoadQuestionsFile(cfg.QuestionCatalogPath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	courses, err := repository.LoadCoursesFile(cfg.CourseCatalogPath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	aliases, err := repository.LoadTraitAliasesFile(cfg.TraitAliasPath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	return questions, courses, aliases, nil, nil, nil
}
