package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/aieval"
	"github.com/edustage/backend/conf"
	"github.com/edustage/backend/expertsrvc"
	"github.com/edustage/backend/http"
	"github.com/edustage/backend/ranksrvc"
	"github.com/edustage/backend/s3bucket"
	"github.com/edustage/backend/submsrvc"
	"github.com/edustage/backend/votesrvc"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	jwtKey := conf.RequireEnv("JWT_KEY")

	ctx := context.Background()

	ddbClient, err := conf.NewDynamoDbClient(ctx)
	if err != nil {
		slog.Error("failed to create dynamodb client", "error", err)
		os.Exit(1)
	}
	sqsClient, err := conf.NewSqsClient(ctx)
	if err != nil {
		slog.Error("failed to create sqs client", "error", err)
		os.Exit(1)
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}
	submBucket, err := s3bucket.NewS3Bucket(region, conf.RequireEnv("SUBM_CONTENT_BUCKET"))
	if err != nil {
		slog.Error("failed to create s3 bucket client", "error", err)
		os.Exit(1)
	}
	if _, err := submBucket.Exists(ctx, "healthcheck"); err != nil {
		slog.Error("submission content bucket is not reachable", "error", err)
		os.Exit(1)
	}

	actRepo := actsrvc.NewDdbActivityRepo(ddbClient, conf.RequireEnv("ACTIVITIES_TABLE"))
	partRepo := actsrvc.NewDdbParticipantRepo(ddbClient, conf.RequireEnv("PARTICIPANTS_TABLE"))
	submRepo := submsrvc.NewDdbSubmissionRepo(ddbClient, conf.RequireEnv("SUBMISSIONS_TABLE"))
	voteRepo := votesrvc.NewDdbVoteRepo(ddbClient, conf.RequireEnv("VOTES_TABLE"))
	expertRepo := expertsrvc.NewDdbExpertScoreRepo(ddbClient, conf.RequireEnv("EXPERT_SCORES_TABLE"))
	aiScoreRepo := aieval.NewDdbScoreRepo(ddbClient, conf.RequireEnv("AI_SCORES_TABLE"))
	snapshotRepo := ranksrvc.NewDdbSnapshotRepo(ddbClient, conf.RequireEnv("RANKING_SNAPSHOTS_TABLE"))

	evaluator, err := aieval.NewLLMEvaluator(aieval.LLMConfig{
		APIKey:      conf.RequireEnv("LLM_API_KEY"),
		BaseURL:     os.Getenv("LLM_BASE_URL"),
		Model:       envOr("LLM_MODEL", "gpt-4o-mini"),
		Temperature: 0,
		MaxTokens:   500,
		RatePerSec:  envFloatOr("LLM_RATE_PER_SEC", 2),
		Burst:       5,
	})
	if err != nil {
		slog.Error("failed to create llm evaluator", "error", err)
		os.Exit(1)
	}

	evalQueueUrl := conf.RequireEnv("EVAL_QUEUE_URL")
	evalQueue := aieval.NewSqsQueue(sqsClient, evalQueueUrl)

	actSrvc := actsrvc.NewActivitySrvc(actRepo, partRepo)
	submSrvc := submsrvc.NewSubmissionSrvc(actSrvc, submRepo, submBucket, evaluator, evalQueue)
	voteSrvc := votesrvc.NewVoteSrvc(actSrvc, submSrvc, voteRepo)
	expertSrvc := expertsrvc.NewExpertSrvc(actSrvc, submSrvc, expertRepo)
	rankSrvc := ranksrvc.NewRankSrvc(actSrvc, submSrvc, voteSrvc, expertSrvc, aiScoreRepo, snapshotRepo)

	actSrvc.SetRecomputer(rankSrvc)

	go actSrvc.RunLifecycleTicker(ctx, 30*time.Second)

	consumer := aieval.NewConsumer(sqsClient, evalQueueUrl, evaluator, submBucket, aiScoreRepo)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			slog.Error("evaluation consumer stopped", "error", err)
		}
	}()

	httpServer := http.NewHttpServer(actSrvc, submSrvc, voteSrvc, expertSrvc, rankSrvc, []byte(jwtKey))

	if presetsPath := os.Getenv("ACTIVITY_PRESETS_FILE"); presetsPath != "" {
		presets, err := conf.LoadActivityPresets(presetsPath)
		if err != nil {
			slog.Error("failed to load activity presets", "error", err)
			os.Exit(1)
		}
		httpServer.SetActivityPresets(presets)
	}

	address := ":8080"
	log.Printf("Starting server on %s", address)
	err = httpServer.Start(address)
	log.Printf("Server stopped with error: %v", err)
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envFloatOr(name string, fallback float64) float64 {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		panic(name + " is not a number")
	}
	return parsed
}
