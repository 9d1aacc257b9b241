package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// sink flushes a batch of messages to wherever the logger is configured to
// write. A failed flush is reported to the caller and the batch is still
// discarded by the worker loop (at-most-once, best effort, no retry queue).
type sink interface {
	flush(ctx context.Context, batch []Message) error
}

func newSink(dest Destination) (sink, error) {
	switch dest.Kind {
	case DestinationConsole:
		return consoleSink{}, nil
	case DestinationLocalFile:
		return localFileSink{path: dest.Path}, nil
	case DestinationObjectStore:
		return newObjectStoreSink(dest)
	default:
		return nil, fmt.Errorf("logger: unknown destination kind %q", dest.Kind)
	}
}

func encodeJSONLines(batch []Message) ([]byte, error) {
	var buf bytes.Buffer
	for _, m := range batch {
		line, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("logger: failed to marshal message: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// consoleSink writes JSON-Lines to stdout — useful for local development and
// the engine's default configuration.
type consoleSink struct{}

func (consoleSink) flush(_ context.Context, batch []Message) error {
	data, err := encodeJSONLines(batch)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// localFileSink appends JSON-Lines to a file opened create-if-absent,
// append-only, matching spec.md §4.4.
type localFileSink struct {
	path string
}

func (s localFileSink) flush(_ context.Context, batch []Message) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("logger: failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logger: failed to open log file: %w", err)
	}
	defer f.Close()

	data, err := encodeJSONLines(batch)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// objectStoreSink uploads a batch as a single JSON-Lines object, keyed per
// spec.md §6: "{key_prefix}/{yyyymmdd_hhmmss}_{uuid4}.jsonl".
type objectStoreSink struct {
	bucket    string
	keyPrefix string
	client    *s3.Client
}

func newObjectStoreSink(dest Destination) (*objectStoreSink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(dest.Region))
	if err != nil {
		return nil, fmt.Errorf("logger: failed to load aws config: %w", err)
	}
	return &objectStoreSink{
		bucket:    dest.Bucket,
		keyPrefix: dest.KeyPrefix,
		client:    s3.NewFromConfig(cfg),
	}, nil
}

func (s *objectStoreSink) flush(ctx context.Context, batch []Message) error {
	data, err := encodeJSONLines(batch)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s_%s.jsonl", s.keyPrefix, time.Now().Format("20060102_150405"), uuid.New().String())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("logger: s3 upload failed: %w", err)
	}
	return nil
}
