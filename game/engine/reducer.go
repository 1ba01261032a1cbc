package engine

import (
	"fmt"

	"github.com/wricardo/city-explorer-game/game/board"
)

// Env is everything a transition may consult besides the state itself
type Env struct {
	Board *board.Board
	Rules Rules
	Rand  Rand
}

// Transition is the outcome of reducing one command
type Transition struct {
	State   GameState `json:"state"`
	Applied bool      `json:"applied"`
	Events  []Event   `json:"events,omitempty"`

	// FetchQuestion is non-zero when the caller must start a trivia fetch
	// and answer it with QuestionLoaded or QuestionFailed carrying this token.
	FetchQuestion uint64 `json:"-"`
}

// Reduce applies cmd to a copy of state. Commands that are invalid for the
// current phase leave the state untouched and report Applied=false.
func Reduce(state GameState, cmd Command, env Env) Transition {
	next := state.Clone()
	r := &reducer{state: &next, env: env}

	if !r.apply(cmd) {
		return Transition{State: state, Events: r.events}
	}

	next.Version = state.Version + 1
	return Transition{
		State:         next,
		Applied:       true,
		Events:        r.events,
		FetchQuestion: r.fetch,
	}
}

type reducer struct {
	state  *GameState
	env    Env
	events []Event
	fetch  uint64
}

func (r *reducer) emit(e Event) {
	r.events = append(r.events, e)
}

func (r *reducer) apply(cmd Command) bool {
	s := r.state

	switch c := cmd.(type) {
	case Reset:
		r.reset()
		return true
	case ExpireNotification:
		return r.expireNotification(c)
	case QuestionLoaded, QuestionFailed:
	default:
		// Only provider results get through while a question is loading
		if s.Processing || s.Phase == PhaseGameOver {
			return false
		}
	}

	switch c := cmd.(type) {
	case SelectTeamCount:
		return r.selectTeamCount(c.Count)
	case UpdateTeam:
		return r.updateTeam(c)
	case StartGame:
		return r.startGame()
	case RollDice:
		return r.rollDice()
	case MoveForward:
		return r.moveForward()
	case Turn:
		return r.turn(c.Direction)
	case EndTurnEarly:
		if s.Phase != PhaseMoving {
			return false
		}
		r.endTurn()
		return true
	case AutoEndTurn:
		if c.Version != s.Version || !s.AwaitingSettle() {
			return false
		}
		r.endTurn()
		return true
	case SelectRedLight:
		return r.selectRedLight(board.Position{X: c.X, Y: c.Y})
	case StartBusRide:
		return r.startBusRide(c.Route)
	case DeclineBus:
		if s.Phase != PhaseBusOffer {
			return false
		}
		s.Phase = PhaseMoving
		return true
	case MoveBusOneStop:
		return r.moveBusOneStop(c.StayOn)
	case AnswerQuestion:
		return r.answerQuestion(c.Correct)
	case QuestionLoaded:
		return r.questionLoaded(c)
	case QuestionFailed:
		return r.questionFailed(c)
	}
	return false
}

func (r *reducer) reset() {
	s := r.state
	fresh := NewGameState()
	fresh.QuestionSeq = s.QuestionSeq
	fresh.NotificationSeq = s.NotificationSeq
	*s = fresh
	r.emit(Event{Type: EventReset})
}

func (r *reducer) selectTeamCount(n int) bool {
	s := r.state
	if s.Phase != PhaseTeamCount || n < MinTeams || n > MaxTeams {
		return false
	}

	s.Teams = make([]Team, n)
	for i := range s.Teams {
		s.Teams[i] = Team{
			ID:           i + 1,
			Name:         fmt.Sprintf("Team %d", i+1),
			Emoji:        TeamEmojis[i%len(TeamEmojis)],
			Color:        TeamColors[i%len(TeamColors)],
			Coins:        r.env.Rules.StartingCoins,
			Destinations: []board.LocationID{},
			Visited:      []board.LocationID{},
		}
	}
	s.CurrentTeamIndex = 0
	s.Phase = PhaseTeamCustomization
	r.emit(Event{Type: EventTeamsCreated, Value: n})
	return true
}

func (r *reducer) updateTeam(c UpdateTeam) bool {
	s := r.state
	if s.Phase != PhaseTeamCustomization {
		return false
	}
	team, ok := s.TeamByID(c.TeamID)
	if !ok {
		return false
	}
	if c.Name == "" && c.Emoji == "" && c.Color == "" {
		return false
	}
	if c.Name != "" {
		team.Name = c.Name
	}
	if c.Emoji != "" {
		team.Emoji = c.Emoji
	}
	if c.Color != "" {
		team.Color = c.Color
	}
	r.emit(Event{Type: EventTeamUpdated, TeamID: team.ID})
	return true
}

func (r *reducer) startGame() bool {
	s := r.state
	if s.Phase != PhaseTeamCustomization || len(s.Teams) == 0 {
		return false
	}

	locations := r.env.Board.Locations()
	for i := range s.Teams {
		team := &s.Teams[i]
		corner := r.env.Board.Corner(i)
		team.Position = corner.Position
		team.Facing = corner.Facing
		team.StartHomeID = corner.Home
		team.Destinations = sampleDistinct(r.env.Rand, locations, DestinationsPerTeam)
		team.Visited = []board.LocationID{}
		team.NextRollBonus = 0
		team.FreeBus = false
		team.LastLocationRewardID = ""
		team.BusStatus = nil
	}

	s.CurrentTeamIndex = 0
	s.DiceRoll = 0
	s.RemainingMoves = 0
	s.RedLight = nil
	s.WinnerID = 0
	r.emit(Event{Type: EventGameStarted, Value: len(s.Teams)})
	r.enterRolling()
	return true
}

// enterRolling starts the current team's turn. Teams already on the bus skip
// the dice and go straight to the next leg decision.
func (r *reducer) enterRolling() {
	s := r.state
	s.Phase = PhaseRolling
	if team, ok := s.CurrentTeam(); ok && team.BusStatus != nil {
		s.Phase = PhaseBusTravel
	}
}

func (r *reducer) rollDice() bool {
	s := r.state
	if s.Phase != PhaseRolling {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return false
	}

	roll := r.env.Rand.Intn(DiceSides) + 1
	bonus := team.NextRollBonus
	team.NextRollBonus = 0

	s.DiceRoll = roll + bonus
	s.RemainingMoves = roll + bonus
	s.Phase = PhaseMoving

	msg := fmt.Sprintf("Rolled %d", roll)
	if bonus > 0 {
		msg = fmt.Sprintf("Rolled %d +%d bonus", roll, bonus)
	}
	r.emit(Event{Type: EventDiceRolled, TeamID: team.ID, Value: s.DiceRoll, Message: msg})
	return true
}

// endTurn decays the red light, clears the reward guard and passes play on
func (r *reducer) endTurn() {
	s := r.state

	if s.RedLight != nil {
		s.RedLight.TurnsRemaining--
		if s.RedLight.TurnsRemaining <= 0 {
			pos := s.RedLight.Position
			s.RedLight = nil
			r.emit(Event{Type: EventRedLightExpired, Position: &pos})
		}
	}

	prev := 0
	if team, ok := s.CurrentTeam(); ok {
		team.LastLocationRewardID = ""
		prev = team.ID
	}
	r.emit(Event{Type: EventTurnEnded, TeamID: prev})

	if len(s.Teams) > 0 {
		s.CurrentTeamIndex = (s.CurrentTeamIndex + 1) % len(s.Teams)
	}
	s.DiceRoll = 0
	s.RemainingMoves = 0
	r.enterRolling()
}

func (r *reducer) selectRedLight(p board.Position) bool {
	s := r.state
	if s.Phase != PhasePowerupSelect {
		return false
	}
	if r.env.Board.Kind(p) != board.Crosswalk {
		return false
	}
	s.RedLight = &RedLight{Position: p, TurnsRemaining: RedLightTurns}
	s.Phase = PhaseMoving

	teamID := 0
	if team, ok := s.CurrentTeam(); ok {
		teamID = team.ID
	}
	r.emit(Event{Type: EventRedLightPlaced, TeamID: teamID, Position: &p, Value: RedLightTurns})
	return true
}

func (r *reducer) expireNotification(c ExpireNotification) bool {
	s := r.state
	for i, n := range s.Notifications {
		if n.ID == c.ID {
			s.Notifications = append(s.Notifications[:i], s.Notifications[i+1:]...)
			return true
		}
	}
	return false
}

func (r *reducer) notify(kind NotificationKind, teamID int, msg string) {
	s := r.state
	s.NotificationSeq++
	s.Notifications = append(s.Notifications, Notification{
		ID:      s.NotificationSeq,
		Kind:    kind,
		TeamID:  teamID,
		Message: msg,
	})
}
