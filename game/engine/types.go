package engine

import (
	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/trivia"
)

// Phase is the turn engine state
type Phase string

const (
	PhaseTeamCount         Phase = "TEAM_COUNT"
	PhaseTeamCustomization Phase = "TEAM_CUSTOMIZATION"
	PhaseRolling           Phase = "ROLLING"
	PhaseMoving            Phase = "MOVING"
	PhaseQuestion          Phase = "QUESTION"
	PhasePowerupSelect     Phase = "POWERUP_SELECT"
	PhaseBusOffer          Phase = "BUS_OFFER"
	PhaseBusTravel         Phase = "BUS_TRAVEL"
	PhaseGameOver          Phase = "GAME_OVER"
)

const (
	// Team limits
	MinTeams = 1
	MaxTeams = 4

	DiceSides           = 6
	DestinationsPerTeam = 2
	RedLightTurns       = 2
	CorrectAnswerCoins  = 3
	BusFare             = 1

	// CoinRewardChance is the probability a correct answer pays coins
	// instead of offering the red light.
	CoinRewardChance = 0.4
)

// Palettes cycled when teams are created
var (
	TeamEmojis = []string{"🚗", "🚲", "🏃", "🛹", "🛵", "🚁", "🚌", "🛸", "🦖", "🦄", "🐶", "🐱"}
	TeamColors = []string{"red", "blue", "yellow", "purple"}
)

// BusStatus is present only while a team rides the bus
type BusStatus struct {
	Route         board.RouteID `json:"route"`
	CurrentStopID int           `json:"current_stop_id"`
}

// Team is one player's full game state
type Team struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Emoji    string          `json:"emoji"`
	Color    string          `json:"color"`
	Position board.Position  `json:"position"`
	Facing   board.Direction `json:"facing"`
	Coins    int             `json:"coins"`

	Destinations []board.LocationID `json:"destinations"`
	Visited      []board.LocationID `json:"visited"` // arrival order
	StartHomeID  board.HomeID       `json:"start_home_id"`

	NextRollBonus int  `json:"next_roll_bonus"`
	FreeBus       bool `json:"free_bus"`

	// LastLocationRewardID guards against collecting the same building
	// reward twice in one turn. Cleared when the turn ends.
	LastLocationRewardID board.LocationID `json:"last_location_reward_id,omitempty"`

	BusStatus *BusStatus `json:"bus_status,omitempty"`
}

// DestinationsComplete reports whether every destination has been visited
func (t *Team) DestinationsComplete() bool {
	return len(t.Destinations) > 0 && len(t.Visited) == len(t.Destinations)
}

// HasDestination reports whether id is one of the team's destinations
func (t *Team) HasDestination(id board.LocationID) bool {
	return containsLocation(t.Destinations, id)
}

// HasVisited reports whether id has already been visited
func (t *Team) HasVisited(id board.LocationID) bool {
	return containsLocation(t.Visited, id)
}

// RedLight is the single shared crosswalk obstruction
type RedLight struct {
	Position       board.Position `json:"position"`
	TurnsRemaining int            `json:"turns_remaining"`
}

// NotificationKind distinguishes transient messages
type NotificationKind string

const (
	NotificationReward NotificationKind = "reward"
	NotificationGoHome NotificationKind = "go_home"
)

// Notification is a one-shot message that expires on its own
type Notification struct {
	ID      int              `json:"id"`
	Kind    NotificationKind `json:"kind"`
	TeamID  int              `json:"team_id"`
	Message string           `json:"message"`
}

// GameState represents the complete game state
type GameState struct {
	Phase            Phase     `json:"phase"`
	Teams            []Team    `json:"teams"`
	CurrentTeamIndex int       `json:"current_team_index"`
	DiceRoll         int       `json:"dice_roll"`
	RemainingMoves   int       `json:"remaining_moves"`
	RedLight         *RedLight `json:"red_light,omitempty"`

	Question   *trivia.Question `json:"question,omitempty"`
	Processing bool             `json:"processing"`

	WinnerID      int            `json:"winner_id,omitempty"`
	Notifications []Notification `json:"notifications"`

	// Version is bumped on every applied command. Deferred work captures it
	// and is discarded when it no longer matches.
	Version uint64 `json:"version"`

	// Counters that survive Reset so stale async results never match.
	QuestionSeq     uint64 `json:"-"`
	PendingQuestion uint64 `json:"-"`
	NotificationSeq int    `json:"-"`
}

// NewGameState returns the initial TEAM_COUNT state
func NewGameState() GameState {
	return GameState{
		Phase:         PhaseTeamCount,
		Teams:         []Team{},
		Notifications: []Notification{},
	}
}

// CurrentTeam returns the team whose turn it is
func (gs *GameState) CurrentTeam() (*Team, bool) {
	if gs.CurrentTeamIndex < 0 || gs.CurrentTeamIndex >= len(gs.Teams) {
		return nil, false
	}
	return &gs.Teams[gs.CurrentTeamIndex], true
}

// TeamByID looks up a team
func (gs *GameState) TeamByID(id int) (*Team, bool) {
	for i := range gs.Teams {
		if gs.Teams[i].ID == id {
			return &gs.Teams[i], true
		}
	}
	return nil, false
}

// Winner returns the winning team once the game is over
func (gs *GameState) Winner() (*Team, bool) {
	if gs.Phase != PhaseGameOver || gs.WinnerID == 0 {
		return nil, false
	}
	return gs.TeamByID(gs.WinnerID)
}

// IsRedLight reports whether p is currently obstructed
func (gs *GameState) IsRedLight(p board.Position) bool {
	return gs.RedLight != nil && gs.RedLight.Position == p
}

// AwaitingSettle reports whether the turn should end on its own after the
// settle delay: the budget is spent and nothing is pending.
func (gs *GameState) AwaitingSettle() bool {
	return gs.Phase == PhaseMoving &&
		gs.RemainingMoves == 0 &&
		!gs.Processing &&
		gs.Question == nil &&
		len(gs.Notifications) == 0
}

// Clone returns a deep copy
func (gs GameState) Clone() GameState {
	out := gs
	out.Teams = make([]Team, len(gs.Teams))
	for i, t := range gs.Teams {
		t.Destinations = append([]board.LocationID{}, t.Destinations...)
		t.Visited = append([]board.LocationID{}, t.Visited...)
		if t.BusStatus != nil {
			bs := *t.BusStatus
			t.BusStatus = &bs
		}
		out.Teams[i] = t
	}
	if gs.RedLight != nil {
		rl := *gs.RedLight
		out.RedLight = &rl
	}
	if gs.Question != nil {
		q := *gs.Question
		out.Question = &q
	}
	out.Notifications = append([]Notification{}, gs.Notifications...)
	return out
}

// HistoryEntry represents a single applied command in the game history
type HistoryEntry struct {
	Sequence     int             `json:"sequence"`
	Action       string          `json:"action"`
	TeamID       int             `json:"team_id,omitempty"`
	PhaseBefore  Phase           `json:"phase_before"`
	PhaseAfter   Phase           `json:"phase_after"`
	FromPosition *board.Position `json:"from_position,omitempty"`
	ToPosition   *board.Position `json:"to_position,omitempty"`
	Events       []Event         `json:"events,omitempty"`
	Timestamp    int64           `json:"timestamp"`
}

func containsLocation(ids []board.LocationID, id board.LocationID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
