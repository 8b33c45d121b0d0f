package systems

// StageInfo describes one stage of a session tick for display.
type StageInfo struct {
	ID          string // Internal identifier (matches the perf phase name)
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "core", "physics")
}

// StageRegistry holds metadata about the stages of a session tick.
// This keeps the HUD and perf tracker naming in sync.
type StageRegistry struct {
	stages []StageInfo
	byID   map[string]StageInfo
}

// NewStageRegistry creates a registry with all known stages.
func NewStageRegistry() *StageRegistry {
	reg := &StageRegistry{
		byID: make(map[string]StageInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the session stages in execution order.
func (r *StageRegistry) registerDefaults() {
	r.Register(StageInfo{ID: "input", Name: "Input", Description: "Samples the active input source", Category: "core"})
	r.Register(StageInfo{ID: "controller", Name: "Controller", Description: "Runs the vehicle pipeline", Category: "core"})
	r.Register(StageInfo{ID: "solver", Name: "Solver", Description: "Integrates chassis and wheels", Category: "physics"})
	r.Register(StageInfo{ID: "telemetry", Name: "Telemetry", Description: "Records window statistics", Category: "internal"})
}

// Register adds a stage to the registry.
func (r *StageRegistry) Register(info StageInfo) {
	r.stages = append(r.stages, info)
	r.byID[info.ID] = info
}

// Get returns stage info by ID.
func (r *StageRegistry) Get(id string) (StageInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *StageRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *StageRegistry) All() []StageInfo {
	return r.stages
}

// IDs returns all stage IDs in registration order.
func (r *StageRegistry) IDs() []string {
	ids := make([]string, len(r.stages))
	for i, info := range r.stages {
		ids[i] = info.ID
	}
	return ids
}
