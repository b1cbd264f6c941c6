package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
)

const keyPrefix = "flash:"

// Redis stores entries as JSON values, shared by every instance.
type Redis struct {
	client redis.UniversalClient
	ids    uid.StringID
	ttl    time.Duration
}

// NewRedis returns a redis-backed store.
func NewRedis(client redis.UniversalClient, ids uid.StringID, ttl time.Duration) *Redis {
	return &Redis{client: client, ids: ids, ttl: ttlOrDefault(ttl)}
}

// Put stores errs and returns the entry id.
func (r *Redis) Put(ctx context.Context, errs []action.FieldError) (string, error) {
	payload, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("flash: encode entry: %w", err)
	}

	id := r.ids.Generate()
	if err := r.client.Set(ctx, keyPrefix+id, payload, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("flash: store entry: %w", err)
	}

	return id, nil
}

// Take returns and removes the entry atomically.
func (r *Redis) Take(ctx context.Context, id string) ([]action.FieldError, error) {
	payload, err := r.client.GetDel(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("flash: load entry: %w", err)
	}

	var errs []action.FieldError
	if err := json.Unmarshal(payload, &errs); err != nil {
		return nil, fmt.Errorf("flash: decode entry: %w", err)
	}

	return errs, nil
}
