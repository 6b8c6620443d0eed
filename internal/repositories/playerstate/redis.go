package playerstate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/errors"
	"github.com/lunarpine/menagerie-api/internal/integrity"
	redisclient "github.com/lunarpine/menagerie-api/internal/redis"
)

const (
	playerStateKeyPrefix = "playerstate:player:"

	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	tagger *integrity.Tagger
}

// RedisConfig contains configuration for the Redis player-state repository.
type RedisConfig struct {
	Client redisclient.Client
	Tagger *integrity.Tagger
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Tagger == nil {
		return errors.InvalidArgument("tagger cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed player-state repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
		tagger: cfg.Tagger,
	}, nil
}

// playerStateData is the storage structure serialized to Redis.
type playerStateData struct {
	PlayerID        string               `json:"player_id"`
	Inventory       []string             `json:"inventory"`
	Equipped        map[string]string    `json:"equipped"`
	Materials       map[string]int       `json:"materials"`
	TotalSpent      int64                `json:"total_spent"`
	PurchaseHistory []purchaseRecordData `json:"purchase_history"`
	UpdatedAt       time.Time            `json:"updated_at"`
	IntegrityTag    string               `json:"integrity_tag"`
}

type purchaseRecordData struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

func toData(state *entities.ShopState, tag string) playerStateData {
	data := playerStateData{
		PlayerID:     state.PlayerID,
		Inventory:    state.Inventory,
		Equipped:     make(map[string]string, len(state.Equipped)),
		Materials:    state.Materials,
		TotalSpent:   state.TotalSpent,
		UpdatedAt:    state.UpdatedAt,
		IntegrityTag: tag,
	}
	for slot, itemID := range state.Equipped {
		data.Equipped[string(slot)] = itemID
	}
	for _, rec := range state.PurchaseHistory {
		data.PurchaseHistory = append(data.PurchaseHistory, purchaseRecordData(rec))
	}
	return data
}

func fromData(data playerStateData) *entities.ShopState {
	state := &entities.ShopState{
		PlayerID:   data.PlayerID,
		Inventory:  data.Inventory,
		Equipped:   make(map[catalog.Slot]string, len(data.Equipped)),
		Materials:  data.Materials,
		TotalSpent: data.TotalSpent,
		UpdatedAt:  data.UpdatedAt,
	}
	if state.Materials == nil {
		state.Materials = make(map[string]int)
	}
	for slot, itemID := range data.Equipped {
		state.Equipped[catalog.Slot(slot)] = itemID
	}
	for _, rec := range data.PurchaseHistory {
		state.PurchaseHistory = append(state.PurchaseHistory, entities.PurchaseRecord(rec))
	}
	return state
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := playerStateKeyPrefix + input.PlayerID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			// Fresh player: no record is not an error.
			return &GetOutput{State: entities.NewShopState(input.PlayerID)}, nil
		}
		return nil, errors.Wrapf(err, "failed to get state for player %s", input.PlayerID)
	}

	var data playerStateData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		slog.Warn("discarding unparseable player state",
			"player_id", input.PlayerID, "error", err)
		return &GetOutput{State: entities.NewShopState(input.PlayerID), Reset: true}, nil
	}

	state := fromData(data)
	if state.PlayerID == "" {
		state.PlayerID = input.PlayerID
	}

	if err := integrity.ValidateState(state); err != nil {
		slog.Warn("discarding player state that failed schema validation",
			"player_id", input.PlayerID, "error", err)
		return &GetOutput{State: entities.NewShopState(input.PlayerID), Reset: true}, nil
	}
	if !r.tagger.Verify(state, data.IntegrityTag) {
		slog.Warn("discarding player state that failed the tamper check",
			"player_id", input.PlayerID)
		return &GetOutput{State: entities.NewShopState(input.PlayerID), Reset: true}, nil
	}

	return &GetOutput{State: state}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}
	if input.State.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if err := integrity.ValidateState(input.State); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "refusing to save invalid state")
	}

	tag := r.tagger.Tag(input.State)
	jsonData, err := json.Marshal(toData(input.State, tag))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal state for player %s", input.State.PlayerID)
	}

	key := playerStateKeyPrefix + input.State.PlayerID
	if err := r.client.Set(ctx, key, jsonData, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save state for player %s", input.State.PlayerID)
	}

	return &SaveOutput{IntegrityTag: tag}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := playerStateKeyPrefix + input.PlayerID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check state existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("state for player %s not found", input.PlayerID)
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete state for player %s", input.PlayerID)
	}

	return &DeleteOutput{}, nil
}

// GetKey returns the Redis key for a player's state.
// Exposed for testing purposes
func GetKey(playerID string) string {
	return fmt.Sprintf("%s%s", playerStateKeyPrefix, playerID)
}
