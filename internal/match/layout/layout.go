// Package layout maps logical seat indices to physical screen positions for
// 3, 4, and 5 player pods. Each pod size has a fixed cyclic ordering of
// named positions; rotating seats advances every player one step along the
// cycle. The resolver is pure data plus modular arithmetic so the same
// offset always yields the same arrangement.
package layout

import "fmt"

// Position names a physical slot on the shared screen.
type Position string

const (
	PositionA Position = "A" // top-right
	PositionB Position = "B" // right side, below A
	PositionC Position = "C" // left side, below D
	PositionD Position = "D" // top-left
	PositionE Position = "E" // bottom-center, spanning
)

// Orientation describes which way a seat's frame faces so players across
// the table can read their own totals.
type Orientation string

const (
	OrientationNormal Orientation = "normal"
	OrientationLeft   Orientation = "left"
	OrientationRight  Orientation = "right"
)

// ErrUnsupportedPlayerCount indicates a pod size without a layout table.
// Reaching it is a caller bug: session creation already bounds the count.
var ErrUnsupportedPlayerCount = fmt.Errorf("player count must be 3, 4, or 5")

// Layout holds the precomputed tables for one pod size.
type Layout struct {
	count       int
	cycle       []Position
	orientation map[Position]Orientation
	// opponentOrder lists, per viewing position, the positions whose
	// occupants appear in that seat's commander-damage grid, in display
	// order. Left-side and right-side seats see mirrored lists so the
	// grid reads naturally from either physical side.
	opponentOrder map[Position][]Position
}

var tables = map[int]Layout{
	3: {
		count: 3,
		cycle: []Position{PositionA, PositionE, PositionD},
		orientation: map[Position]Orientation{
			PositionA: OrientationRight,
			PositionE: OrientationNormal,
			PositionD: OrientationLeft,
		},
		opponentOrder: map[Position][]Position{
			PositionA: {PositionE, PositionD, PositionA},
			PositionD: {PositionA, PositionE, PositionD},
			PositionE: {PositionD, PositionA, PositionE},
		},
	},
	4: {
		count: 4,
		cycle: []Position{PositionA, PositionB, PositionC, PositionD},
		orientation: map[Position]Orientation{
			PositionA: OrientationRight,
			PositionB: OrientationRight,
			PositionC: OrientationLeft,
			PositionD: OrientationLeft,
		},
		opponentOrder: map[Position][]Position{
			PositionA: {PositionC, PositionD, PositionB, PositionA},
			PositionB: {PositionC, PositionD, PositionB, PositionA},
			PositionC: {PositionA, PositionB, PositionC, PositionD},
			PositionD: {PositionA, PositionB, PositionC, PositionD},
		},
	},
	5: {
		count: 5,
		cycle: []Position{PositionA, PositionB, PositionE, PositionC, PositionD},
		orientation: map[Position]Orientation{
			PositionA: OrientationRight,
			PositionB: OrientationRight,
			PositionE: OrientationNormal,
			PositionC: OrientationLeft,
			PositionD: OrientationLeft,
		},
		opponentOrder: map[Position][]Position{
			PositionA: {PositionE, PositionC, PositionD, PositionB, PositionA},
			PositionB: {PositionE, PositionC, PositionD, PositionB, PositionA},
			PositionC: {PositionA, PositionB, PositionE, PositionD, PositionC},
			PositionD: {PositionA, PositionB, PositionE, PositionD, PositionC},
			PositionE: {PositionD, PositionA, PositionC, PositionB, PositionE},
		},
	},
}

// For returns the layout table for the pod size.
func For(playerCount int) (Layout, error) {
	table, ok := tables[playerCount]
	if !ok {
		return Layout{}, ErrUnsupportedPlayerCount
	}
	return table, nil
}

// PositionFor returns the physical position a seat occupies at the given
// rotation offset. Seat i starts at cycle position i and advances one step
// per rotation.
func (l Layout) PositionFor(offset, seat int) Position {
	return l.cycle[mod(seat+offset, l.count)]
}

// SeatAt returns the seat currently occupying the physical position.
func (l Layout) SeatAt(offset int, pos Position) int {
	for i, p := range l.cycle {
		if p == pos {
			return mod(i-offset, l.count)
		}
	}
	return -1
}

// Orientation returns the facing for a physical position.
func (l Layout) Orientation(pos Position) Orientation {
	return l.orientation[pos]
}

// OpponentOrder returns the seats to show in the viewing seat's
// commander-damage grid, in display order. The order depends only on the
// viewer's current physical position, so it is stable for a fixed offset.
func (l Layout) OpponentOrder(offset, seat int) []int {
	viewing := l.PositionFor(offset, seat)
	positions := l.opponentOrder[viewing]
	seats := make([]int, 0, len(positions))
	for _, pos := range positions {
		seats = append(seats, l.SeatAt(offset, pos))
	}
	return seats
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
