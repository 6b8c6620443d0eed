package roster

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
	redisclient "github.com/lunarpine/menagerie-api/internal/redis"
)

const (
	rosterKeyPrefix = "roster:player:"

	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis roster repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed roster repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// rosterData is the storage structure serialized to Redis.
type rosterData struct {
	PlayerID    string                        `json:"player_id"`
	Instances   map[string]*entities.Instance `json:"instances"`
	CompanionID string                        `json:"companion_id,omitempty"`
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := rosterKeyPrefix + input.PlayerID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetOutput{Roster: entities.NewRoster(input.PlayerID)}, nil
		}
		return nil, errors.Wrapf(err, "failed to get roster for player %s", input.PlayerID)
	}

	var data rosterData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal roster data")
	}

	out := entities.NewRoster(input.PlayerID)
	out.CompanionID = data.CompanionID
	for templateID, inst := range data.Instances {
		// Drop instances whose template left the catalog.
		if _, ok := catalog.Template(templateID); !ok {
			continue
		}
		if inst.Level < 1 {
			inst.Level = 1
		}
		out.Instances[templateID] = inst
	}
	if _, ok := out.Instances[out.CompanionID]; !ok {
		out.CompanionID = ""
		for id := range out.Instances {
			out.CompanionID = id
			break
		}
	}

	return &GetOutput{Roster: out}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Roster == nil {
		return nil, errors.InvalidArgument("roster cannot be nil")
	}
	if input.Roster.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	data := rosterData{
		PlayerID:    input.Roster.PlayerID,
		Instances:   input.Roster.Instances,
		CompanionID: input.Roster.CompanionID,
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roster data")
	}

	key := rosterKeyPrefix + input.Roster.PlayerID
	if err := r.client.Set(ctx, key, jsonData, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save roster for player %s", input.Roster.PlayerID)
	}

	return &SaveOutput{}, nil
}

// GetKey returns the Redis key for a player's roster.
// Exposed for testing purposes
func GetKey(playerID string) string {
	return fmt.Sprintf("%s%s", rosterKeyPrefix, playerID)
}
