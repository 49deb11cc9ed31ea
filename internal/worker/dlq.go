package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// DeadLetter is a job that exhausted its attempts, kept for manual replay.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// DLQKey is the Redis list holding dead letters for queue.
func DLQKey(queue string) string { return dlqPrefix + queue }

// PushDeadLetter records job on its queue's DLQ. Failures are only logged:
// the job is already lost to the live queue at this point.
func PushDeadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	entry := DeadLetter{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", DLQKey(queue)).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job dead-lettered")
}

// DLQLength returns the number of dead letters for queue, reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQKey(queue)).Result()
}

// PeekDeadLetters returns up to n of the newest dead letters without removing them.
// Used by cmd/deadletters.
func PeekDeadLetters(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]DeadLetter, error) {
	raw, err := rdb.LRange(ctx, DLQKey(queue), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DeadLetter, 0, len(raw))
	for _, r := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(r), &dl); err != nil {
			continue
		}
		out = append(out, dl)
	}
	return out, nil
}
