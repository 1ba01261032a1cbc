// Package board holds the static city map for the City Explorer game.
//
// A Board is built once from rows of cell codes and never changes:
//   - S sidewalk, R road, C crosswalk, U bus stop, G grass, Q question
//   - B1..B12 buildings, resolved to the fixed Locations table
//   - H1..H4 homes, resolved to the fixed Homes table
//
// Every code is resolved through a precomputed table when the board is
// constructed, so tile classification at play time is a plain slice lookup.
// The board also carries the bus network: numbered stops placed on U tiles
// and named cyclic routes (CW and CCW) over the same stop set.
package board
