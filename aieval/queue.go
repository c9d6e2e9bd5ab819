package aieval

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/edustage/backend/logger"
)

// EvalRequest is the message enqueued when a submission is admitted and
// consumed by the background evaluator.
type EvalRequest struct {
	SubmUuid   string `json:"subm_uuid"`
	ContentKey string `json:"content_key"`
}

// RequestQueue enqueues evaluation requests. Implemented over SQS in
// production and by a channel fake in tests.
type RequestQueue interface {
	Enqueue(ctx context.Context, req EvalRequest) error
}

type SqsQueue struct {
	client   *sqs.Client
	queueUrl string
}

func NewSqsQueue(client *sqs.Client, queueUrl string) *SqsQueue {
	return &SqsQueue{client: client, queueUrl: queueUrl}
}

func (q *SqsQueue) Enqueue(ctx context.Context, req EvalRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueUrl),
		MessageBody: aws.String(string(body)),
	})
	return err
}

// Consumer polls the evaluation queue, runs the evaluator and caches the
// result. Messages are deleted only after the score is cached, so a failed
// evaluation is redelivered; the conditional insert makes redelivery safe.
type Consumer struct {
	client    *sqs.Client
	queueUrl  string
	evaluator Evaluator
	fetcher   ContentFetcher
	scores    ScoreRepo

	// MaxConcurrency bounds parallel LLM calls per poll batch.
	MaxConcurrency int
}

func NewConsumer(client *sqs.Client, queueUrl string, evaluator Evaluator, fetcher ContentFetcher, scores ScoreRepo) *Consumer {
	return &Consumer{
		client:         client,
		queueUrl:       queueUrl,
		evaluator:      evaluator,
		fetcher:        fetcher,
		scores:         scores,
		MaxConcurrency: 5,
	}
}

// Run blocks polling the queue until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		output, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueUrl),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     5,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("failed to receive evaluation requests", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.MaxConcurrency)
		for _, message := range output.Messages {
			message := message
			g.Go(func() error {
				if err := c.handleMessage(gctx, message.Body); err != nil {
					log.Error("evaluation request failed", "error", err)
					return nil // leave the message for redelivery
				}
				_, err := c.client.DeleteMessage(gctx, &sqs.DeleteMessageInput{
					QueueUrl:      aws.String(c.queueUrl),
					ReceiptHandle: message.ReceiptHandle,
				})
				if err != nil {
					log.Error("failed to delete evaluation request", "error", err)
				}
				return nil
			})
		}
		g.Wait()
	}
}

func (c *Consumer) handleMessage(ctx context.Context, body *string) error {
	if body == nil {
		return errors.New("empty message body")
	}

	var req EvalRequest
	if err := json.Unmarshal([]byte(*body), &req); err != nil {
		return err
	}
	submID, err := uuid.Parse(req.SubmUuid)
	if err != nil {
		return err
	}

	// Skip work if another consumer already evaluated this submission.
	cached, err := c.scores.Get(ctx, submID)
	if err != nil {
		return err
	}
	if cached != nil {
		return nil
	}

	content, err := c.fetcher.Download(ctx, req.ContentKey)
	if err != nil {
		return err
	}

	ev, err := c.evaluator.Evaluate(ctx, string(content))
	if err != nil {
		return err
	}

	err = c.scores.CompareAndInsert(ctx, submID, ev)
	if errors.Is(err, ErrAlreadyEvaluated) {
		return nil
	}
	return err
}
