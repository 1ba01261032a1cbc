package engine

import (
	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/trivia"
)

// Command is a single request to change the game state. Commands that are
// not valid for the current phase are ignored.
type Command interface {
	Action() string
}

// Action names, used for history entries and the transport layers
const (
	ActionSelectTeamCount    = "select_team_count"
	ActionUpdateTeam         = "update_team"
	ActionStartGame          = "start_game"
	ActionRollDice           = "roll_dice"
	ActionMoveForward        = "move_forward"
	ActionTurn               = "turn"
	ActionEndTurn            = "end_turn"
	ActionSelectRedLight     = "select_red_light"
	ActionStartBusRide       = "start_bus_ride"
	ActionDeclineBus         = "decline_bus"
	ActionMoveBus            = "move_bus"
	ActionAnswerQuestion     = "answer_question"
	ActionReset              = "reset"
	ActionQuestionLoaded     = "question_loaded"
	ActionQuestionFailed     = "question_failed"
	ActionAutoEndTurn        = "auto_end_turn"
	ActionExpireNotification = "expire_notification"
)

// TurnDirection is the rotation requested by a Turn command
type TurnDirection string

const (
	TurnLeft  TurnDirection = "LEFT"
	TurnRight TurnDirection = "RIGHT"
)

type (
	// SelectTeamCount creates Count teams with default appearance
	SelectTeamCount struct{ Count int }

	// UpdateTeam edits a team during customization. Empty fields are kept.
	UpdateTeam struct {
		TeamID int
		Name   string
		Emoji  string
		Color  string
	}

	// StartGame places teams on their corners and deals destinations
	StartGame struct{}

	// RollDice sets the move budget for the current team
	RollDice struct{}

	// MoveForward steps one tile in the facing direction
	MoveForward struct{}

	// Turn rotates the current team 90 degrees
	Turn struct{ Direction TurnDirection }

	// EndTurnEarly gives up the remaining budget
	EndTurnEarly struct{}

	// SelectRedLight places the obstruction on a crosswalk
	SelectRedLight struct{ X, Y int }

	// StartBusRide boards the bus at the current stop
	StartBusRide struct{ Route board.RouteID }

	// DeclineBus walks on instead of boarding
	DeclineBus struct{}

	// MoveBusOneStop rides one more leg, or gets off when StayOn is false
	MoveBusOneStop struct{ StayOn bool }

	// AnswerQuestion delivers the verdict on the pending question
	AnswerQuestion struct{ Correct bool }

	// Reset starts over from team selection
	Reset struct{}

	// QuestionLoaded delivers a provider result for request Token
	QuestionLoaded struct {
		Token    uint64
		Question trivia.Question
	}

	// QuestionFailed reports a provider failure for request Token
	QuestionFailed struct {
		Token  uint64
		Reason string
	}

	// AutoEndTurn ends a settled turn if the state is still at Version
	AutoEndTurn struct{ Version uint64 }

	// ExpireNotification removes a transient notification
	ExpireNotification struct{ ID int }
)

func (SelectTeamCount) Action() string    { return ActionSelectTeamCount }
func (UpdateTeam) Action() string         { return ActionUpdateTeam }
func (StartGame) Action() string          { return ActionStartGame }
func (RollDice) Action() string           { return ActionRollDice }
func (MoveForward) Action() string        { return ActionMoveForward }
func (Turn) Action() string               { return ActionTurn }
func (EndTurnEarly) Action() string       { return ActionEndTurn }
func (SelectRedLight) Action() string     { return ActionSelectRedLight }
func (StartBusRide) Action() string       { return ActionStartBusRide }
func (DeclineBus) Action() string         { return ActionDeclineBus }
func (MoveBusOneStop) Action() string     { return ActionMoveBus }
func (AnswerQuestion) Action() string     { return ActionAnswerQuestion }
func (Reset) Action() string              { return ActionReset }
func (QuestionLoaded) Action() string     { return ActionQuestionLoaded }
func (QuestionFailed) Action() string     { return ActionQuestionFailed }
func (AutoEndTurn) Action() string        { return ActionAutoEndTurn }
func (ExpireNotification) Action() string { return ActionExpireNotification }

// EventType names something that happened while applying a command
type EventType string

const (
	EventTeamsCreated       EventType = "teams_created"
	EventTeamUpdated        EventType = "team_updated"
	EventGameStarted        EventType = "game_started"
	EventDiceRolled         EventType = "dice_rolled"
	EventMoved              EventType = "moved"
	EventBlocked            EventType = "blocked"
	EventTurned             EventType = "turned"
	EventReward             EventType = "reward"
	EventDestinationVisited EventType = "destination_visited"
	EventGoHome             EventType = "go_home"
	EventBusOffer           EventType = "bus_offer"
	EventBusBoarded         EventType = "bus_boarded"
	EventBusLeg             EventType = "bus_leg"
	EventBusExit            EventType = "bus_exit"
	EventQuestionRequested  EventType = "question_requested"
	EventQuestionReady      EventType = "question_ready"
	EventQuestionFailed     EventType = "question_failed"
	EventAnswerCorrect      EventType = "answer_correct"
	EventAnswerWrong        EventType = "answer_wrong"
	EventPowerupOffered     EventType = "powerup_offered"
	EventRedLightPlaced     EventType = "red_light_placed"
	EventRedLightExpired    EventType = "red_light_expired"
	EventTurnEnded          EventType = "turn_ended"
	EventGameOver           EventType = "game_over"
	EventReset              EventType = "reset"
)

// Event describes one effect of an applied (or blocked) command
type Event struct {
	Type     EventType       `json:"type"`
	TeamID   int             `json:"team_id,omitempty"`
	Message  string          `json:"message,omitempty"`
	Position *board.Position `json:"position,omitempty"`
	Value    int             `json:"value,omitempty"`
}
