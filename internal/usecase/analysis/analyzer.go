package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	"github.com/lecture-insight-team/lecture-insight/pkg/jobcontext"
)

const systemPrompt = "You are an expert in higher-education didactics. " +
	"You assess one block of a recorded lecture against a fixed evaluation rubric. " +
	"Judge only what the transcript shows. Respond with a single JSON object and nothing else."

// ScoringClient sends one prompt pair to the scoring service and returns
// the assistant content.
type ScoringClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analyzer scores transcript blocks against the rubric via the external
// scoring service. Blocks are independent, so AnalyzeAll fans them out over
// a bounded worker pool shared across runs.
type Analyzer struct {
	client        ScoringClient
	logger        *zap.Logger
	sem           chan struct{} // bounds concurrent scoring calls
	maxRetries    int
	retryInterval time.Duration
	strict        bool
}

// NewAnalyzer creates an Analyzer. concurrency bounds parallel scoring
// calls; maxRetries is the retry ceiling per block on transient failures;
// strict makes a failed block abort the whole run instead of being omitted.
func NewAnalyzer(client ScoringClient, concurrency, maxRetries int, strict bool, logger *zap.Logger) *Analyzer {
	if concurrency < 1 {
		concurrency = 3
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Analyzer{
		client:        client,
		logger:        logger,
		sem:           make(chan struct{}, concurrency),
		maxRetries:    maxRetries,
		retryInterval: 2 * time.Second,
		strict:        strict,
	}
}

// Analyze scores a single block. The request carries the block text, its
// time range and the full rubric, so every call is self-contained. Transient
// service failures are retried with exponential backoff up to the ceiling;
// fatal ones stop immediately. The response is validated before use.
func (a *Analyzer) Analyze(ctx context.Context, block entities.Block, rubric entities.Rubric) (*entities.BlockResult, error) {
	user := buildBlockPrompt(block, rubric)

	var content string
	attempts := 0
	operation := func() error {
		var err error
		content, err = a.client.Complete(ctx, systemPrompt, user)
		attempts++
		if err == nil {
			return nil
		}
		if jobcontext.Classify(err) == jobcontext.OutcomeRetryable {
			if a.logger != nil {
				a.logger.Warn("🔁 Scoring attempt failed, will retry",
					zap.Int("block", block.Index),
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	// WithMaxRetries treats 0 as "no cap", so a zero ceiling has to map
	// to a single attempt explicitly.
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if a.maxRetries > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = a.retryInterval
		bo.MaxInterval = 10 * time.Second
		bo.MaxElapsedTime = 0 // bounded by attempts and ctx, not wall clock
		policy = backoff.WithMaxRetries(bo, uint64(a.maxRetries))
	}

	retrier := backoff.WithContext(policy, ctx)
	if err := backoff.Retry(operation, retrier); err != nil {
		return nil, &entities.ScoringServiceError{BlockIndex: block.Index, Attempts: attempts, Err: err}
	}

	result, err := parseBlockAssessment(block.Index, content, rubric)
	if err != nil {
		return nil, err
	}
	result.Start = block.Start
	result.End = block.End

	if a.logger != nil {
		a.logger.Info("✅ Block scored",
			zap.Int("block", block.Index),
			zap.String("time_range", block.TimeRange()),
			zap.Int("attempts", attempts),
		)
	}
	return result, nil
}

// AnalyzeAll scores blocks concurrently and returns results in block order
// regardless of completion order. Each worker writes only its own slot, so
// no locking is needed. Cancellation discards completed results: a partial
// aggregate must never masquerade as a finished one. In lenient mode failed
// blocks come back as BlockFailure entries; in strict mode the first failed
// block (by index) fails the call.
func (a *Analyzer) AnalyzeAll(ctx context.Context, blocks []entities.Block, rubric entities.Rubric) ([]entities.BlockResult, []entities.BlockFailure, error) {
	results := make([]*entities.BlockResult, len(blocks))
	errs := make([]error, len(blocks))

	var wg sync.WaitGroup
	for i := range blocks {
		wg.Add(1)
		go func(idx int, block entities.Block) {
			defer wg.Done()

			select {
			case a.sem <- struct{}{}:
				defer func() { <-a.sem }()
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}

			res, err := a.Analyze(ctx, block, rubric)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = res
		}(i, blocks[i])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ordered := make([]entities.BlockResult, 0, len(blocks))
	var failures []entities.BlockFailure
	for i := range blocks {
		if errs[i] != nil {
			if a.strict {
				if a.logger != nil {
					a.logger.Error("🚫 Strict mode: aborting run on failed block",
						zap.Int("block", blocks[i].Index),
						zap.Error(errs[i]),
					)
				}
				return nil, nil, errs[i]
			}
			if a.logger != nil {
				a.logger.Warn("⚠️ Block omitted from aggregation",
					zap.Int("block", blocks[i].Index),
					zap.Error(errs[i]),
				)
			}
			failures = append(failures, entities.BlockFailure{
				BlockIndex: blocks[i].Index,
				Reason:     errs[i].Error(),
			})
			continue
		}
		ordered = append(ordered, *results[i])
	}

	return ordered, failures, nil
}

// buildBlockPrompt renders the scoring request: block text, time range and
// the full rubric, criterion by criterion.
func buildBlockPrompt(block entities.Block, rubric entities.Rubric) string {
	var b strings.Builder

	b.WriteString("Assess the following lecture block.\n\n")
	fmt.Fprintf(&b, "Time range: %s\n", block.TimeRange())
	fmt.Fprintf(&b, "Segments: %d\n\n", block.SegmentCount)

	b.WriteString("Evaluation criteria, score each from 1 (poor) to 5 (excellent), one decimal allowed:\n")
	for _, c := range rubric {
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.ID, c.DisplayName, c.Description)
	}

	b.WriteString("\nRespond with a JSON object of this exact shape:\n")
	b.WriteString("{\n")
	b.WriteString("  \"scores\": {\"<criterion_id>\": {\"score\": <number>, \"note\": \"<short justification with a quote if possible>\"}},\n")
	b.WriteString("  \"strengths\": [\"...\"],\n")
	b.WriteString("  \"improvements\": [\"...\"],\n")
	b.WriteString("  \"recommendations\": [\"...\"]\n")
	b.WriteString("}\n")
	b.WriteString("Every criterion id listed above must appear in \"scores\".\n\n")

	b.WriteString("Transcript block:\n")
	b.WriteString(block.Text)

	return b.String()
}
