package service

import (
	"fmt"
	"strings"

	"github.com/wricardo/city-explorer-game/game/board"
	"github.com/wricardo/city-explorer-game/game/engine"
)

// CommandRequest is the wire form of a player command. Only the fields the
// action needs are read.
type CommandRequest struct {
	Action    string `json:"action"`
	Count     int    `json:"count,omitempty"`
	TeamID    int    `json:"team_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
	Color     string `json:"color,omitempty"`
	Direction string `json:"direction,omitempty"`
	X         *int   `json:"x,omitempty"`
	Y         *int   `json:"y,omitempty"`
	Route     string `json:"route,omitempty"`
	StayOn    bool   `json:"stay_on,omitempty"`
	Correct   bool   `json:"correct,omitempty"`
}

// PlayerActions lists the actions clients may send. Timer and trivia
// callbacks are internal to the engine.
var PlayerActions = []string{
	engine.ActionSelectTeamCount,
	engine.ActionUpdateTeam,
	engine.ActionStartGame,
	engine.ActionRollDice,
	engine.ActionMoveForward,
	engine.ActionTurn,
	engine.ActionEndTurn,
	engine.ActionSelectRedLight,
	engine.ActionStartBusRide,
	engine.ActionDeclineBus,
	engine.ActionMoveBus,
	engine.ActionAnswerQuestion,
	engine.ActionReset,
}

// Command converts the request into an engine command
func (r CommandRequest) Command() (engine.Command, error) {
	switch r.Action {
	case engine.ActionSelectTeamCount:
		return engine.SelectTeamCount{Count: r.Count}, nil
	case engine.ActionUpdateTeam:
		if r.TeamID == 0 {
			return nil, fmt.Errorf("%w: team_id is required", ErrInvalidCommand)
		}
		return engine.UpdateTeam{TeamID: r.TeamID, Name: r.Name, Emoji: r.Emoji, Color: r.Color}, nil
	case engine.ActionStartGame:
		return engine.StartGame{}, nil
	case engine.ActionRollDice:
		return engine.RollDice{}, nil
	case engine.ActionMoveForward:
		return engine.MoveForward{}, nil
	case engine.ActionTurn:
		dir := engine.TurnDirection(strings.ToUpper(r.Direction))
		if dir != engine.TurnLeft && dir != engine.TurnRight {
			return nil, fmt.Errorf("%w: direction must be LEFT or RIGHT, got %q", ErrInvalidCommand, r.Direction)
		}
		return engine.Turn{Direction: dir}, nil
	case engine.ActionEndTurn:
		return engine.EndTurnEarly{}, nil
	case engine.ActionSelectRedLight:
		if r.X == nil || r.Y == nil {
			return nil, fmt.Errorf("%w: x and y are required", ErrInvalidCommand)
		}
		return engine.SelectRedLight{X: *r.X, Y: *r.Y}, nil
	case engine.ActionStartBusRide:
		route := board.RouteID(strings.ToUpper(r.Route))
		if route == "" {
			return nil, fmt.Errorf("%w: route is required", ErrInvalidCommand)
		}
		return engine.StartBusRide{Route: route}, nil
	case engine.ActionDeclineBus:
		return engine.DeclineBus{}, nil
	case engine.ActionMoveBus:
		return engine.MoveBusOneStop{StayOn: r.StayOn}, nil
	case engine.ActionAnswerQuestion:
		return engine.AnswerQuestion{Correct: r.Correct}, nil
	case engine.ActionReset:
		return engine.Reset{}, nil
	case "":
		return nil, fmt.Errorf("%w: action is required", ErrInvalidCommand)
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, r.Action)
}
