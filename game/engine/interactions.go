package engine

import (
	"fmt"

	"github.com/wricardo/city-explorer-game/game/board"
)

// resolveTile applies everything the tile at p does to the current team.
// The checks are independent and run in order.
func (r *reducer) resolveTile(p board.Position) {
	s := r.state
	team, _ := s.CurrentTeam()
	tile, ok := r.env.Board.Tile(p)
	if !ok {
		return
	}

	if tile.Kind == board.BusStop {
		s.Phase = PhaseBusOffer
		r.emit(Event{Type: EventBusOffer, TeamID: team.ID, Position: &p})
	}

	if tile.Kind == board.Building {
		if loc, ok := board.LocationByID(tile.Location); ok {
			r.grantLocationReward(team, loc)
			r.trackDestination(team, loc)
		}
	}

	if tile.Kind == board.Home && tile.Home == team.StartHomeID && team.DestinationsComplete() {
		s.Phase = PhaseGameOver
		s.WinnerID = team.ID
		r.emit(Event{Type: EventGameOver, TeamID: team.ID, Message: fmt.Sprintf("%s wins!", team.Name)})
	}

	if tile.Kind == board.Question {
		r.requestQuestion(team)
	}
}

// grantLocationReward applies a building's reward once per turn
func (r *reducer) grantLocationReward(team *Team, loc board.Location) {
	if team.LastLocationRewardID == loc.ID {
		return
	}

	switch loc.Reward.Kind {
	case board.RewardRollBonus:
		team.NextRollBonus = loc.Reward.Amount
	case board.RewardCoins:
		team.Coins += loc.Reward.Amount
	case board.RewardFreeBus:
		team.FreeBus = true
	}
	team.LastLocationRewardID = loc.ID

	r.notify(NotificationReward, team.ID, loc.Message)
	r.emit(Event{Type: EventReward, TeamID: team.ID, Message: loc.Message, Value: loc.Reward.Amount})
}

// trackDestination records a first visit to one of the team's destinations
func (r *reducer) trackDestination(team *Team, loc board.Location) {
	if !team.HasDestination(loc.ID) || team.HasVisited(loc.ID) {
		return
	}

	wasComplete := team.DestinationsComplete()
	team.Visited = append(team.Visited, loc.ID)
	r.emit(Event{Type: EventDestinationVisited, TeamID: team.ID, Message: loc.Name, Value: len(team.Visited)})

	if !wasComplete && team.DestinationsComplete() {
		homeName := string(team.StartHomeID)
		if home, ok := board.HomeByID(team.StartHomeID); ok {
			homeName = home.Name
		}
		msg := fmt.Sprintf("Quest Complete! Return to %s!", homeName)
		r.notify(NotificationGoHome, team.ID, msg)
		r.emit(Event{Type: EventGoHome, TeamID: team.ID, Message: msg})
	}
}

// requestQuestion marks the state as waiting on the trivia provider
func (r *reducer) requestQuestion(team *Team) {
	s := r.state
	s.QuestionSeq++
	s.PendingQuestion = s.QuestionSeq
	s.Processing = true
	r.fetch = s.QuestionSeq
	r.emit(Event{Type: EventQuestionRequested, TeamID: team.ID})
}

func (r *reducer) questionLoaded(c QuestionLoaded) bool {
	s := r.state
	if !s.Processing || c.Token != s.PendingQuestion {
		return false
	}
	q := c.Question
	s.Processing = false
	s.PendingQuestion = 0
	s.Question = &q
	s.Phase = PhaseQuestion
	r.emit(Event{Type: EventQuestionReady, Message: q.Question})
	return true
}

func (r *reducer) questionFailed(c QuestionFailed) bool {
	s := r.state
	if !s.Processing || c.Token != s.PendingQuestion {
		return false
	}
	s.Processing = false
	s.PendingQuestion = 0
	s.Phase = PhaseMoving
	r.emit(Event{Type: EventQuestionFailed, Message: c.Reason})
	return true
}

// answerQuestion consumes the verdict. A correct answer pays coins or offers
// the red light.
func (r *reducer) answerQuestion(correct bool) bool {
	s := r.state
	if s.Phase != PhaseQuestion {
		return false
	}
	team, ok := s.CurrentTeam()
	if !ok {
		return false
	}
	s.Question = nil

	if !correct {
		s.Phase = PhaseMoving
		r.emit(Event{Type: EventAnswerWrong, TeamID: team.ID})
		return true
	}

	if r.env.Rand.Float64() < CoinRewardChance {
		team.Coins += CorrectAnswerCoins
		s.Phase = PhaseMoving
		r.emit(Event{Type: EventAnswerCorrect, TeamID: team.ID, Value: CorrectAnswerCoins, Message: fmt.Sprintf("+%d Coins", CorrectAnswerCoins)})
		return true
	}

	s.Phase = PhasePowerupSelect
	r.emit(Event{Type: EventAnswerCorrect, TeamID: team.ID})
	r.emit(Event{Type: EventPowerupOffered, TeamID: team.ID, Message: "Pick a crosswalk for the red light"})
	return true
}
