package content

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/clock"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/lorelegacy/internal/redis"
)

const (
	// set of collection keys
	collectionsKey = "content:collections"
	// hash of collection label and folder
	collectionKeyPrefix = "content:collection:"
	// hash of record name -> record JSON
	recordsKeyPrefix = "content:records:"

	labelField  = "label"
	folderField = "folder"
)

type redisRepository struct {
	client  redisclient.Client
	stamper stamper
}

// RedisConfig contains configuration for the Redis content repository
type RedisConfig struct {
	Client      redisclient.Client
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed content repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client:  cfg.Client,
		stamper: newStamper(cfg.IDGenerator, cfg.Clock),
	}, nil
}

// CollectionKey returns the Redis key holding a collection's metadata.
// Exposed for testing purposes.
func CollectionKey(key string) string {
	return collectionKeyPrefix + key
}

// RecordsKey returns the Redis key holding a collection's records.
// Exposed for testing purposes.
func RecordsKey(key string) string {
	return recordsKeyPrefix + key
}

func (r *redisRepository) CreateOrReplace(ctx context.Context, input *CreateOrReplaceInput) (*CreateOrReplaceOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rec := r.stamper.stamp(input.Record)
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal record %q", rec.Name)
	}

	key := input.Collection.Key
	recordsKey := RecordsKey(key)

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, collectionsKey, key)
	pipe.HSet(ctx, CollectionKey(key),
		labelField, input.Collection.Label,
		folderField, input.Collection.Folder,
	)
	deleted := pipe.HDel(ctx, recordsKey, rec.Name)
	pipe.HSet(ctx, recordsKey, rec.Name, data)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store record %q in collection %s", rec.Name, key)
	}

	return &CreateOrReplaceOutput{
		Record:   rec,
		Replaced: deleted.Val() > 0,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	result, err := r.client.HGet(ctx, RecordsKey(input.CollectionKey), input.Name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
		}
		return nil, errors.Wrapf(err, "failed to get record %q", input.Name)
	}

	rec, err := decodeRecord(result)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Record: rec}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, "", false); err != nil {
		return nil, err
	}

	known, err := r.client.SIsMember(ctx, collectionsKey, input.CollectionKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check collection %s", input.CollectionKey)
	}
	if !known {
		return nil, errors.NotFoundf("collection %s not found", input.CollectionKey)
	}

	values, err := r.client.HGetAll(ctx, RecordsKey(input.CollectionKey)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collection %s", input.CollectionKey)
	}

	records := make([]*content.Record, 0, len(values))
	for _, v := range values {
		rec, err := decodeRecord(v)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	sortRecords(records)

	return &ListOutput{Records: records}, nil
}

func (r *redisRepository) ListCollections(ctx context.Context, _ *ListCollectionsInput) (*ListCollectionsOutput, error) {
	keys, err := r.client.SMembers(ctx, collectionsKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collections")
	}

	collections := make([]content.Collection, 0, len(keys))
	for _, key := range keys {
		meta, err := r.client.HGetAll(ctx, CollectionKey(key)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get collection %s", key)
		}
		collections = append(collections, content.Collection{
			Key:    key,
			Label:  meta[labelField],
			Folder: meta[folderField],
		})
	}
	sortCollections(collections)

	return &ListCollectionsOutput{Collections: collections}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	n, err := r.client.HDel(ctx, RecordsKey(input.CollectionKey), input.Name).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete record %q", input.Name)
	}
	if n == 0 {
		return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
	}

	return &DeleteOutput{}, nil
}

func decodeRecord(data string) (*content.Record, error) {
	var rec content.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal record")
	}
	return &rec, nil
}
