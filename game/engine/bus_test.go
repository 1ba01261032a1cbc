package engine

import (
	"testing"

	"github.com/wricardo/city-explorer-game/game/board"
)

// atStop returns a state in BUS_OFFER with the current team on stop 1
func atStop(t *testing.T, n int) (GameState, Env) {
	t.Helper()
	s, env := startedGame(t, n)
	s = moving(s, board.Position{X: 0, Y: 1}, board.Down, 3)
	s = mustApply(t, s, MoveForward{}, env)
	if s.Phase != PhaseBusOffer {
		t.Fatalf("Expected BUS_OFFER, got %s", s.Phase)
	}
	return s, env
}

func TestStartBusRide(t *testing.T) {
	s, env := atStop(t, 2)

	mustIgnore(t, s, StartBusRide{Route: "SIDEWAYS"}, env)

	tr := Reduce(s, StartBusRide{Route: board.Clockwise}, env)
	if !tr.Applied {
		t.Fatal("Expected boarding to apply")
	}
	next := tr.State
	rider := next.Teams[0]
	if rider.BusStatus == nil || rider.BusStatus.Route != board.Clockwise || rider.BusStatus.CurrentStopID != 1 {
		t.Fatalf("Expected rider on CLOCKWISE at stop 1, got %+v", rider.BusStatus)
	}
	if rider.Coins != DefaultStartingCoins {
		t.Errorf("Boarding should be free, coins %d", rider.Coins)
	}
	if !hasEvent(tr.Events, EventBusBoarded) || !hasEvent(tr.Events, EventTurnEnded) {
		t.Error("Expected bus_boarded and turn_ended events")
	}

	// boarding ends the turn; the other team rolls normally
	if next.CurrentTeamIndex != 1 || next.Phase != PhaseRolling {
		t.Fatalf("Expected team 2 ROLLING, got index %d phase %s", next.CurrentTeamIndex, next.Phase)
	}

	// and the rider's next turn goes straight to the bus decision
	next = moving(next, next.Teams[1].Position, next.Teams[1].Facing, 1)
	next = mustApply(t, next, EndTurnEarly{}, env)
	if next.CurrentTeamIndex != 0 || next.Phase != PhaseBusTravel {
		t.Errorf("Expected team 1 in BUS_TRAVEL, got index %d phase %s", next.CurrentTeamIndex, next.Phase)
	}
	mustIgnore(t, next, RollDice{}, env)
}

func TestStartBusRideOnlyFromOffer(t *testing.T) {
	s, env := startedGame(t, 1)
	mustIgnore(t, s, StartBusRide{Route: board.Clockwise}, env)
	mustIgnore(t, moving(s, board.Position{X: 0, Y: 2}, board.Down, 2), StartBusRide{Route: board.Clockwise}, env)
}

func TestMoveBusOneStop(t *testing.T) {
	s, env := atStop(t, 1)
	s = mustApply(t, s, StartBusRide{Route: board.Clockwise}, env)
	if s.Phase != PhaseBusTravel {
		t.Fatalf("Single team should come straight back to BUS_TRAVEL, got %s", s.Phase)
	}

	tr := Reduce(s, MoveBusOneStop{StayOn: true}, env)
	if !tr.Applied {
		t.Fatal("Expected a bus leg")
	}
	s = tr.State
	rider := s.Teams[0]
	if rider.Position != (board.Position{X: 6, Y: 2}) || rider.BusStatus.CurrentStopID != 2 {
		t.Errorf("Expected stop 2 at (6,2), got %v stop %d", rider.Position, rider.BusStatus.CurrentStopID)
	}
	if rider.Coins != DefaultStartingCoins-BusFare {
		t.Errorf("Expected fare paid, coins %d", rider.Coins)
	}
	if !hasEvent(tr.Events, EventBusLeg) {
		t.Error("Expected bus_leg event")
	}

	// broke: staying on is treated as getting off
	tr = Reduce(s, MoveBusOneStop{StayOn: true}, env)
	if !tr.Applied {
		t.Fatal("Expected forced exit to apply")
	}
	s = tr.State
	rider = s.Teams[0]
	if rider.BusStatus != nil {
		t.Fatalf("Expected rider off the bus, got %+v", rider.BusStatus)
	}
	if rider.Position != (board.Position{X: 6, Y: 2}) || rider.Coins != 0 {
		t.Errorf("Exit should leave position and coins alone, got %v coins %d", rider.Position, rider.Coins)
	}
	if s.Phase != PhaseRolling {
		t.Errorf("Expected ROLLING after getting off, got %s", s.Phase)
	}
	if !hasEvent(tr.Events, EventBusExit) {
		t.Error("Expected bus_exit event")
	}
}

func TestBusFreePass(t *testing.T) {
	s, env := atStop(t, 1)
	s.Teams[0].FreeBus = true
	s = mustApply(t, s, StartBusRide{Route: board.Clockwise}, env)
	if !s.Teams[0].FreeBus {
		t.Fatal("Boarding must not consume the pass")
	}

	s = mustApply(t, s, MoveBusOneStop{StayOn: true}, env)
	if s.Teams[0].FreeBus || s.Teams[0].Coins != DefaultStartingCoins {
		t.Errorf("Expected pass used before coins, pass=%v coins=%d", s.Teams[0].FreeBus, s.Teams[0].Coins)
	}

	s = mustApply(t, s, MoveBusOneStop{StayOn: true}, env)
	if s.Teams[0].Coins != DefaultStartingCoins-BusFare {
		t.Errorf("Second leg should cost a coin, coins %d", s.Teams[0].Coins)
	}
	if s.Teams[0].Position != (board.Position{X: 5, Y: 4}) {
		t.Errorf("Expected stop 3 at (5,4), got %v", s.Teams[0].Position)
	}
}

func TestBusRoutes(t *testing.T) {
	tests := []struct {
		route board.RouteID
		want  []int
	}{
		{board.Clockwise, []int{2, 3, 1, 2}},
		{board.CounterClockwise, []int{3, 2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			s, env := atStop(t, 1)
			s.Teams[0].Coins = 10
			s = mustApply(t, s, StartBusRide{Route: tt.route}, env)

			for i, id := range tt.want {
				s = mustApply(t, s, MoveBusOneStop{StayOn: true}, env)
				rider := s.Teams[0]
				if rider.BusStatus.CurrentStopID != id {
					t.Fatalf("Leg %d: expected stop %d, got %d", i+1, id, rider.BusStatus.CurrentStopID)
				}
				stop, _ := env.Board.Stop(id)
				if rider.Position != stop.Position() {
					t.Errorf("Leg %d: expected position %v, got %v", i+1, stop.Position(), rider.Position)
				}
			}
			if s.Teams[0].Coins != 10-len(tt.want)*BusFare {
				t.Errorf("Expected %d fares paid, coins %d", len(tt.want), s.Teams[0].Coins)
			}

			s = mustApply(t, s, MoveBusOneStop{StayOn: false}, env)
			if s.Teams[0].BusStatus != nil || s.Phase != PhaseRolling {
				t.Errorf("Expected voluntary exit to ROLLING, got %s", s.Phase)
			}
		})
	}
}
