package tak

const planes = 6 // top piece: color x kind

// FeatureCount is the length of Features for a board size.
func FeatureCount(size int) int {
	return size*size*planes + 3
}

// Features encodes the top of every stack from the perspective of the player to move,
// followed by both reserve fractions and whether the opening is still on.
func (g *Game) Features() []float64 {
	features := make([]float64, FeatureCount(g.size))
	for i, stack := range g.board {
		top, ok := stack.top()
		if !ok {
			continue
		}
		plane := int(top.Kind)
		if top.Color != g.toMove {
			plane += 3
		}
		features[i*planes+plane] = 1
	}

	start := startingReserves[g.size]
	total := float64(start.Stones) + float64(start.Caps)
	tail := len(g.board) * planes
	own, other := g.reserves[g.toMove], g.reserves[g.toMove.Opponent()]
	features[tail] = (float64(own.Stones) + float64(own.Caps)) / total
	features[tail+1] = (float64(other.Stones) + float64(other.Caps)) / total
	if g.inOpening() {
		features[tail+2] = 1
	}
	return features
}

// ActionIndex maps a move to a dense index for policy outputs: placements first,
// then spreads by square, direction and drop pattern.
func ActionIndex(size int) func(Move) int {
	squares := size * size
	patterns := 1 << size // drop patterns of up to size stones, as compositions
	return func(m Move) int {
		square := int(m.Square.Rank)*size + int(m.Square.File)
		if m.Kind == Place {
			return square*3 + int(m.Piece)
		}
		return squares*3 + (square*4+int(m.Dir))*patterns + composition(m)
	}
}

// ActionCount is the number of distinct indexes ActionIndex can return.
func ActionCount(size int) int {
	return size*size*3 + size*size*4*(1<<size)
}

// composition encodes the drop pattern as a bitmask over the carried stones.
func composition(m Move) int {
	mask := 1 << (m.Count - 1)
	pos := 0
	for _, d := range m.Drops[:m.dropCount()] {
		pos += int(d)
		if pos < int(m.Count) {
			mask |= 1 << (pos - 1)
		}
	}
	return mask
}
