package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/wikibox/internal/model"
)

// LookupFunc resolves a raw topic to its infobox fields
type LookupFunc func(ctx context.Context, raw string) (*model.Lookup, error)

// LookupJob looks up a single topic
type LookupJob struct {
	Topic  string
	Lookup LookupFunc
}

// Execute executes the lookup job
func (j *LookupJob) Execute(ctx context.Context) Result {
	lookup, err := j.Lookup(ctx, j.Topic)
	return &LookupResult{
		Topic:  j.Topic,
		Lookup: lookup,
		Error:  err,
	}
}

// LookupResult is the outcome of one LookupJob
type LookupResult struct {
	Topic  string
	Lookup *model.Lookup
	Error  error
}

// GetError returns the error from the lookup
func (r *LookupResult) GetError() error {
	return r.Error
}

// BatchProcessor looks up many topics concurrently
type BatchProcessor struct {
	lookup      LookupFunc
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(lookup LookupFunc, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		lookup:      lookup,
		concurrency: concurrency,
	}
}

// ProcessTopics looks up every topic and returns results in input order
func (b *BatchProcessor) ProcessTopics(ctx context.Context, topics []string) []*LookupResult {
	if len(topics) == 0 {
		return []*LookupResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, topic := range topics {
		if !pool.Submit(&LookupJob{Topic: topic, Lookup: b.lookup}) {
			break
		}
	}

	results := pool.Wait()

	lookupResults := make([]*LookupResult, len(topics))
	for i := range topics {
		if i < len(results) && results[i] != nil {
			lookupResults[i] = results[i].(*LookupResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		lookupResults[i] = &LookupResult{Topic: topics[i], Error: fmt.Errorf("not processed: %w", err)}
	}

	return lookupResults
}

// ProcessFile reads topics from a file and looks them up concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*LookupResult, error) {
	topics, err := ReadTopicsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}

	return b.ProcessTopics(ctx, topics), nil
}

// ReadTopicsFromFile reads topics from a file (one per line)
func ReadTopicsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadTopics(file)
}

// ReadTopics reads one topic per line, skipping blank lines and # comments.
// Topics that normalize to the same words are kept once, first occurrence wins.
func ReadTopics(r io.Reader) ([]string, error) {
	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(strings.Join(strings.Fields(line), " "))
		if !seen[key] {
			seen[key] = true
			topics = append(topics, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return topics, nil
}
