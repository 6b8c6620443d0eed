// Package gateway exposes the session core to browser clients over a
// websocket. Each connection runs one player session: change events
// published by the core stream out as JSON frames, and command frames
// coming in are dispatched to the matching session operation, replying
// with the operation's result.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lunarpine/menagerie-api/internal/catalog"
	"github.com/lunarpine/menagerie-api/internal/errors"
	"github.com/lunarpine/menagerie-api/internal/events"
	"github.com/lunarpine/menagerie-api/internal/orchestrators/session"
	"github.com/lunarpine/menagerie-api/internal/unlock"
)

const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 25 * time.Second
	maxCommandSize = 4096
)

// Config holds the dependencies for the gateway
type Config struct {
	Orchestrator *session.Orchestrator
	EventBus     events.Bus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Orchestrator == nil {
		vb.RequiredField("Orchestrator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Gateway upgrades HTTP requests into player websocket sessions.
type Gateway struct {
	orchestrator *session.Orchestrator
	eventBus     events.Bus
	upgrader     websocket.Upgrader
}

// New creates a new gateway
func New(cfg *Config) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Gateway{
		orchestrator: cfg.Orchestrator,
		eventBus:     cfg.EventBus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}, nil
}

// commandFrame is one inbound client command. Type selects the operation;
// only the fields the operation needs are read.
type commandFrame struct {
	Type         string `json:"type"`
	Seq          uint64 `json:"seq,omitempty"`
	ItemID       string `json:"item_id,omitempty"`
	Slot         string `json:"slot,omitempty"`
	RecipeID     string `json:"recipe_id,omitempty"`
	TemplateID   string `json:"template_id,omitempty"`
	Material     string `json:"material,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	StandingTier int    `json:"standing_tier,omitempty"`
	Balance      int64  `json:"balance,omitempty"`
	Attacker     string `json:"attacker,omitempty"`
	Defender     string `json:"defender,omitempty"`

	Snapshot unlock.Snapshot `json:"snapshot,omitempty"`
}

// resultFrame replies to one command.
type resultFrame struct {
	Frame   string      `json:"frame"` // always "result"
	Seq     uint64      `json:"seq,omitempty"`
	Op      string      `json:"op"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// eventFrame pushes one core change event.
type eventFrame struct {
	Frame string       `json:"frame"` // always "event"
	Event events.Event `json:"event"`
}

// subscriber is one live connection. All writes go through writeMu; the
// gorilla connection allows only one concurrent writer.
type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *subscriber) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *subscriber) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// HandleWS upgrades the request and runs the player's session until the
// connection drops. The player id comes from the "player" query parameter.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		rejectErr := errors.InvalidArgument("missing player query parameter")
		http.Error(w, errors.GetMessage(rejectErr), errors.GetCode(rejectErr).HTTPStatus())
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "player_id", playerID, "error", err)
		return
	}

	sub := &subscriber{conn: conn}

	// Forward this player's change events for the life of the
	// connection. The session publishes its load events during Start, so
	// subscribe first.
	unsubscribe := g.eventBus.Subscribe(func(event events.Event) {
		if event.PlayerID != playerID {
			return
		}
		if err := sub.writeJSON(eventFrame{Frame: "event", Event: event}); err != nil {
			conn.Close()
		}
	})
	defer unsubscribe()

	sess, err := g.orchestrator.Start(r.Context(), playerID)
	if err != nil {
		slog.Error("failed to start session", "player_id", playerID, "error", err)
		message := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session start failed")
		_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeTimeout))
		conn.Close()
		return
	}

	done := make(chan struct{})
	defer close(done)
	go g.heartbeat(sub, done)

	conn.SetReadLimit(maxCommandSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}

		var cmd commandFrame
		if err := json.Unmarshal(payload, &cmd); err != nil {
			slog.Warn("discarding malformed command", "player_id", playerID, "error", err)
			continue
		}

		reply := g.dispatch(r.Context(), sess, cmd)
		if err := sub.writeJSON(reply); err != nil {
			conn.Close()
			return
		}
	}
}

func (g *Gateway) heartbeat(sub *subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := sub.ping(); err != nil {
				sub.conn.Close()
				return
			}
		}
	}
}

// dispatch routes one command frame to its session operation and shapes
// the reply. Unknown operations and operation misuse both come back as
// failed results; the connection stays up either way.
func (g *Gateway) dispatch(ctx context.Context, sess *session.Session, cmd commandFrame) resultFrame {
	reply := resultFrame{Frame: "result", Seq: cmd.Seq, Op: cmd.Type}

	var (
		result session.Result
		data   interface{}
		err    error
	)

	switch cmd.Type {
	case "equip":
		var out *session.EquipOutput
		out, err = sess.Equip(ctx, &session.EquipInput{ItemID: cmd.ItemID})
		if out != nil {
			result, data = out.Result, out
		}
	case "unequip":
		var out *session.UnequipOutput
		out, err = sess.Unequip(ctx, &session.UnequipInput{Slot: catalog.Slot(cmd.Slot)})
		if out != nil {
			result, data = out.Result, out
		}
	case "can_purchase":
		var out *session.CanPurchaseOutput
		out, err = sess.CanPurchase(ctx, &session.CanPurchaseInput{
			ItemID:       cmd.ItemID,
			StandingTier: cmd.StandingTier,
			Balance:      cmd.Balance,
		})
		if out != nil {
			result, data = session.Result{Success: out.Allowed, Message: out.Reason}, out
		}
	case "purchase":
		var out *session.PurchaseOutput
		out, err = sess.Purchase(ctx, &session.PurchaseInput{
			ItemID:       cmd.ItemID,
			StandingTier: cmd.StandingTier,
			Balance:      cmd.Balance,
		})
		if out != nil {
			result, data = out.Result, out
		}
	case "can_craft":
		var out *session.CanCraftOutput
		out, err = sess.CanCraft(ctx, &session.CanCraftInput{RecipeID: cmd.RecipeID})
		if out != nil {
			result, data = session.Result{Success: out.Craftable, Message: out.Reason}, out
		}
	case "craft":
		var out *session.CraftOutput
		out, err = sess.Craft(ctx, &session.CraftInput{RecipeID: cmd.RecipeID})
		if out != nil {
			result, data = out.Result, out
		}
	case "add_material":
		var out *session.AddMaterialOutput
		out, err = sess.AddMaterial(ctx, &session.AddMaterialInput{
			Material: cmd.Material,
			Quantity: cmd.Quantity,
		})
		if out != nil {
			result, data = out.Result, out
		}
	case "add_creature":
		var out *session.AddCreatureOutput
		out, err = sess.AddCreature(ctx, &session.AddCreatureInput{
			TemplateID: cmd.TemplateID,
			Snapshot:   cmd.Snapshot,
		})
		if out != nil {
			result, data = out.Result, out
		}
	case "check_unlock":
		var out *session.CheckUnlockOutput
		out, err = sess.CheckUnlock(ctx, &session.CheckUnlockInput{
			TemplateID: cmd.TemplateID,
			Snapshot:   cmd.Snapshot,
		})
		if out != nil {
			result, data = session.Result{Success: out.Unlocked, Message: out.Reason}, out
		}
	case "grant_xp":
		var out *session.GrantExperienceOutput
		out, err = sess.GrantExperience(ctx, &session.GrantExperienceInput{
			TemplateID: cmd.TemplateID,
			Amount:     cmd.Amount,
		})
		if out != nil {
			result, data = out.Result, out
		}
	case "grant_affinity":
		var out *session.GrantAffinityOutput
		out, err = sess.GrantAffinity(ctx, &session.GrantAffinityInput{
			TemplateID: cmd.TemplateID,
			Amount:     int(cmd.Amount),
		})
		if out != nil {
			result, data = out.Result, out
		}
	case "bonuses":
		var out *session.GetBonusesOutput
		out, err = sess.GetBonuses(ctx)
		if out != nil {
			result, data = session.Result{Success: true}, out
		}
	case "effective_stats":
		var out *session.GetEffectiveStatsOutput
		out, err = sess.GetEffectiveStats(ctx, &session.GetEffectiveStatsInput{TemplateID: cmd.TemplateID})
		if out != nil {
			result, data = session.Result{Success: true}, out
		}
	case "roster":
		var out *session.GetRosterOutput
		out, err = sess.GetRoster(ctx)
		if out != nil {
			result, data = session.Result{Success: true}, out
		}
	case "state":
		var out *session.GetStateOutput
		out, err = sess.GetState(ctx)
		if out != nil {
			result, data = session.Result{Success: true}, out
		}
	case "effectiveness":
		var out *session.GetEffectivenessOutput
		out, err = sess.GetEffectiveness(ctx, &session.GetEffectivenessInput{
			Attacker: catalog.Element(cmd.Attacker),
			Defender: catalog.Element(cmd.Defender),
		})
		if out != nil {
			result, data = session.Result{Success: true}, out
		}
	default:
		reply.Message = "unknown operation " + cmd.Type
		return reply
	}

	if err != nil {
		reply.Message = errors.GetMessage(err)
		return reply
	}

	reply.Success = result.Success
	reply.Message = result.Message
	reply.Data = data
	return reply
}
