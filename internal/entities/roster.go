package entities

// Instance is a player's creature or ally instance. The template supplies
// everything static; only level, accumulated experience, and (for allies)
// affinity live here. Ability availability is re-derived from the template
// on demand and deliberately never stored.
type Instance struct {
	TemplateID string `json:"template_id"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
	Affinity   int    `json:"affinity"`
}

// Roster is the per-player collection of instances, keyed by template id.
type Roster struct {
	PlayerID  string
	Instances map[string]*Instance
	// CompanionID names the instance that receives purchase XP rewards.
	CompanionID string
}

// NewRoster returns an empty roster.
func NewRoster(playerID string) *Roster {
	return &Roster{
		PlayerID:  playerID,
		Instances: make(map[string]*Instance),
	}
}

// Add registers a fresh level-1 instance for templateID if absent and
// returns it. The first instance added becomes the companion.
func (r *Roster) Add(templateID string) *Instance {
	if inst, ok := r.Instances[templateID]; ok {
		return inst
	}
	inst := &Instance{TemplateID: templateID, Level: 1}
	r.Instances[templateID] = inst
	if r.CompanionID == "" {
		r.CompanionID = templateID
	}
	return inst
}

// Companion returns the companion instance, or nil when the roster is
// empty.
func (r *Roster) Companion() *Instance {
	if r.CompanionID == "" {
		return nil
	}
	return r.Instances[r.CompanionID]
}

// HighestLevel returns the highest instance level, or 1 for an empty
// roster. Equipment level gates check against this.
func (r *Roster) HighestLevel() int {
	highest := 1
	for _, inst := range r.Instances {
		if inst.Level > highest {
			highest = inst.Level
		}
	}
	return highest
}

// Clone returns a deep copy.
func (r *Roster) Clone() *Roster {
	out := &Roster{PlayerID: r.PlayerID, CompanionID: r.CompanionID}
	out.Instances = make(map[string]*Instance, len(r.Instances))
	for id, inst := range r.Instances {
		cp := *inst
		out.Instances[id] = &cp
	}
	return out
}
