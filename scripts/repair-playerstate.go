package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/entities"
	"github.com/lunarpine/menagerie-api/internal/integrity"
)

// storedState mirrors the repository's storage shape.
type storedState struct {
	PlayerID        string            `json:"player_id"`
	Inventory       []string          `json:"inventory"`
	Equipped        map[string]string `json:"equipped"`
	Materials       map[string]int    `json:"materials"`
	TotalSpent      int64             `json:"total_spent"`
	PurchaseHistory []storedPurchase  `json:"purchase_history"`
	UpdatedAt       time.Time         `json:"updated_at"`
	IntegrityTag    string            `json:"integrity_tag"`
}

type storedPurchase struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

func toState(data storedState) *entities.ShopState {
	state := &entities.ShopState{
		PlayerID:   data.PlayerID,
		Inventory:  data.Inventory,
		Materials:  data.Materials,
		TotalSpent: data.TotalSpent,
		UpdatedAt:  data.UpdatedAt,
		Equipped:   make(map[catalog.Slot]string, len(data.Equipped)),
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

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	entropy := os.Getenv("MENAGERIE_ENTROPY")
	if entropy == "" {
		entropy = integrity.DefaultEntropy()
	}
	tagger := integrity.NewTagger(entropy)

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning player-state records...")

	iter := client.Scan(ctx, 0, "playerstate:player:*", 0).Iterator()

	var corruptKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		raw, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var data storedState
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			fmt.Printf("✗ Unparseable JSON in %s\n", key)
			corruptKeys = append(corruptKeys, key)
			continue
		}

		state := toState(data)
		if err := integrity.ValidateState(state); err != nil {
			fmt.Printf("✗ Schema violation in %s: %v\n", key, err)
			corruptKeys = append(corruptKeys, key)
			continue
		}
		if !tagger.Verify(state, data.IntegrityTag) {
			fmt.Printf("✗ Tamper check failed for %s\n", key)
			corruptKeys = append(corruptKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupt records\n", checkedCount, len(corruptKeys))

	if len(corruptKeys) == 0 {
		fmt.Println("All records healthy!")
		return
	}

	fmt.Println("\nCorrupt keys:")
	for _, key := range corruptKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to RESET these records to the default state? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	const keyPrefix = "playerstate:player:"
	for _, key := range corruptKeys {
		playerID := key[len(keyPrefix):]
		fresh := entities.NewShopState(playerID)

		data := storedState{
			PlayerID:     fresh.PlayerID,
			Inventory:    fresh.Inventory,
			Equipped:     map[string]string{},
			Materials:    fresh.Materials,
			IntegrityTag: tagger.Tag(fresh),
		}
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Printf("Failed to marshal reset state for %s: %v\n", key, err)
			continue
		}

		if err := client.Set(ctx, key, jsonData, 0).Err(); err != nil {
			fmt.Printf("Failed to reset %s: %v\n", key, err)
		} else {
			fmt.Printf("Reset %s\n", key)
		}
	}
	fmt.Println("\nRepair complete!")
}
