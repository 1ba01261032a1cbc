// Package engine provides the turn engine for the City Explorer board game.
//
// The engine package implements the game mechanics including:
//   - The phase state machine from team selection to GAME_OVER
//   - Step movement against the board map and the red light obstruction
//   - Building rewards, destination tracking and the home victory check
//   - The bus sub-loop and the trivia sub-flow
//
// Core Types:
//
// GameState is a plain value. Reduce applies one Command to a copy of it and
// returns a Transition, so whole games can be replayed without timers or
// goroutines. GameEngine wraps Reduce with a mutex, a Scheduler for the
// settle delay and notification expiry, and the asynchronous trivia fetch.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults(engine.WithLogger(logger))
//	defer eng.Close()
//
//	eng.Dispatch(engine.SelectTeamCount{Count: 2})
//	eng.Dispatch(engine.StartGame{})
//	eng.Dispatch(engine.RollDice{})
//	t := eng.Dispatch(engine.MoveForward{})
//	if !t.Applied {
//		// blocked, or not valid in this phase
//	}
//
// Game Rules:
//
// Each team gets two destination buildings. Teams roll a die, spend the
// result on steps and quarter turns, and collect building rewards on the way.
// Question tiles trigger trivia; a correct answer pays coins or lets the team
// close a crosswalk with the red light for two turns. Bus stops offer a ride
// around the city loop at one coin per leg. The first team to visit both
// destinations and walk back into its own home wins.
package engine
