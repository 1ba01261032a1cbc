package engine

import (
	"github.com/wricardo/city-explorer-game/game/board"
)

// startBusRide boards the bus at the stop the team is standing on and ends
// the turn. Riding happens on the following turns.
func (r *reducer) startBusRide(route board.RouteID) bool {
	s := r.state
	if s.Phase != PhaseBusOffer {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return false
	}
	stop, ok := r.env.Board.StopAt(team.Position)
	if !ok {
		return false
	}
	if _, ok := r.env.Board.Route(route); !ok {
		return false
	}

	team.BusStatus = &BusStatus{Route: route, CurrentStopID: stop.ID}
	s.RemainingMoves = 0
	pos := stop.Position()
	r.emit(Event{Type: EventBusBoarded, TeamID: team.ID, Position: &pos, Message: string(route), Value: stop.ID})
	r.endTurn()
	return true
}

// moveBusOneStop rides one leg or gets off. Each call consumes the turn.
func (r *reducer) moveBusOneStop(stayOn bool) bool {
	s := r.state
	if s.Phase != PhaseBusTravel {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok || team.BusStatus == nil {
		return false
	}

	// No fare and no pass: the team has to get off
	if stayOn && team.Coins <= 0 && !team.FreeBus {
		stayOn = false
	}

	if !stayOn {
		team.BusStatus = nil
		pos := team.Position
		r.emit(Event{Type: EventBusExit, TeamID: team.ID, Position: &pos})
		r.endTurn()
		return true
	}

	next, err := r.env.Board.NextStop(team.BusStatus.Route, team.BusStatus.CurrentStopID)
	if err != nil {
		return false
	}

	team.Position = next.Position()
	team.BusStatus.CurrentStopID = next.ID
	fare := 0
	if team.FreeBus {
		team.FreeBus = false
	} else {
		team.Coins -= BusFare
		fare = BusFare
	}

	pos := team.Position
	r.emit(Event{Type: EventBusLeg, TeamID: team.ID, Position: &pos, Value: fare})
	r.endTurn()
	return true
}
