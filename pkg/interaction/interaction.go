// Package interaction defines the structured payload of a story turn: scene,
// dialogue, location, and plot/relationship deltas extracted from a raw AI
// response. Records are value types with no I/O.
package interaction

import "strings"

// Record is the structured form of one story turn.
type Record struct {
	PlayerAction         string               `json:"player_action"`
	SceneDescription     string               `json:"scene_description"`
	Location             string               `json:"location"`
	CharacterResponses   []CharacterResponse  `json:"character_responses"`
	PlotDevelopments     []string             `json:"plot_developments"`
	RelationshipChanges  []RelationshipChange `json:"relationship_changes"`
	NarrativeProgression string               `json:"narrative_progression"`
}

// CharacterResponse is one character's turn within a scene. All fields are
// optional; a response with an empty name or dialogue is not display-worthy
// but is retained for data completeness.
type CharacterResponse struct {
	CharacterName    string `json:"character_name"`
	Dialogue         string `json:"dialogue"`
	Action           string `json:"action"`
	Emotion          string `json:"emotion"`
	InternalThoughts string `json:"internal_thoughts"`
}

// RelationshipChange is a shift in standing between two characters.
// ChangeValue is unused by scoring today and is kept for future weighting.
type RelationshipChange struct {
	Character1  string  `json:"character1"`
	Character2  string  `json:"character2"`
	Change      string  `json:"change"`
	Reason      string  `json:"reason"`
	ChangeValue float64 `json:"change_value"`
}

// Characters returns the ordered set of character names appearing in the
// record: response names first, then relationship participants.
func (r *Record) Characters() []string {
	seen := make(map[string]bool)
	var names []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, resp := range r.CharacterResponses {
		add(resp.CharacterName)
	}
	for _, change := range r.RelationshipChanges {
		add(change.Character1)
		add(change.Character2)
	}

	return names
}

// Locations returns the set of locations named by the record.
func (r *Record) Locations() []string {
	if strings.TrimSpace(r.Location) == "" {
		return nil
	}
	return []string{r.Location}
}

// PlotElements returns the plot developments as a filterable set.
func (r *Record) PlotElements() []string {
	return r.PlotDevelopments
}
