// FilePath: internal/repository/redisstore/redis.predictions.go
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/breev/aqhub/internal/config"
	"github.com/breev/aqhub/internal/errors"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const predictionKeyPrefix = "prediction:latest:"

// PredictionRepo keeps the most recent forecast document per sensor in Redis.
// Storing a new document replaces the previous one; documents are never
// expired by the hub itself.
type PredictionRepo struct {
	client *redis.Client
}

func NewPredictionRepository(cfg config.RedisConfig) (*PredictionRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to connect to redis", err)
	}

	nuts.L.Infof("[PredictionRepo] Connected to redis at %s:%d", cfg.Host, cfg.Port)
	return &PredictionRepo{client: client}, nil
}

func (r *PredictionRepo) GetLatest(ctx context.Context, sensorID string) (json.RawMessage, error) {
	doc, err := r.client.Get(ctx, predictionKeyPrefix+sensorID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NewNotFoundError("no stored prediction for sensor", err)
		}
		return nil, errors.NewDatabaseError("failed to get stored prediction", err)
	}
	return json.RawMessage(doc), nil
}

func (r *PredictionRepo) Store(ctx context.Context, sensorID string, doc json.RawMessage) error {
	if err := r.client.Set(ctx, predictionKeyPrefix+sensorID, []byte(doc), 0).Err(); err != nil {
		return errors.NewDatabaseError("failed to store prediction", err)
	}
	return nil
}

func (r *PredictionRepo) Delete(ctx context.Context, sensorID string) error {
	if err := r.client.Del(ctx, predictionKeyPrefix+sensorID).Err(); err != nil {
		return errors.NewDatabaseError("failed to delete stored prediction", err)
	}
	return nil
}

func (r *PredictionRepo) Close() error {
	return r.client.Close()
}
