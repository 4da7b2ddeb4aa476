package tak

import (
	"testing"

	"zerosearch/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestEnvironment(t *testing.T) {
	t.Run("generated moves are legal", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for _, size := range []int{3, 4, 5, 6} {
			g := New(size)
			var moves []Move
			for step := 0; step < 200; step++ {
				if _, over := g.Terminal(); over {
					break
				}
				moves = g.PopulateActions(moves[:0])
				require.NotEmpty(t, moves)
				for _, m := range moves {
					require.NoError(t, g.Copy().Play(m), "%v should be legal in %v", m, g)
				}
				g.Step(moves[rng.Intn(len(moves))])
			}
		}
	})

	t.Run("generated moves are distinct and round trip through PTN", func(t *testing.T) {
		g := mustPlay(t, 5, "a1", "e5", "Cc3", "d3", "c3>", "b3", "2d3<11")
		seen := map[Move]bool{}

		for _, m := range g.Moves() {
			require.False(t, seen[m], "%v should only be generated once", m)
			seen[m] = true
			parsed, err := ParseMove(m.String())
			require.NoError(t, err)
			require.Equal(t, m, parsed)
		}
	})

	t.Run("clones are independent", func(t *testing.T) {
		g := mustPlay(t, 3, "a1", "c3", "b1")
		clone := g.Clone()

		clone.Step(Placement(Square{1, 1}, Flat))

		require.Empty(t, g.Stack(Square{1, 1}))
		require.Equal(t, uint16(3), g.Steps())
		require.Equal(t, uint16(4), clone.Steps())
	})

	t.Run("cloned stacks do not share storage", func(t *testing.T) {
		g := mustPlay(t, 3, "a1", "c3", "b1", "a2", "b1<", "c1")
		clone := g.Copy()

		clone.Step(SpreadMove(Square{0, 0}, Up, 1))
		clone.Step(Placement(Square{1, 0}, Wall))
		clone.Step(Placement(Square{2, 1}, Flat))
		clone.Step(SpreadMove(Square{1, 0}, Left, 1))
		_, over := clone.Terminal()
		require.False(t, over)
		require.Equal(t, Stack{{Black, Flat}, {Black, Wall}}, clone.Stack(Square{0, 0}))

		require.Equal(t, Stack{{Black, Flat}, {White, Flat}}, g.Stack(Square{0, 0}))
	})

	t.Run("random openings", func(t *testing.T) {
		g := mustPlay(t, 3, "a1", "c3", "b1")

		actions := g.NewOpening(rand.New(rand.NewSource(5)), nil)

		require.Empty(t, actions)
		require.Equal(t, uint16(2), g.Steps())
		require.Equal(t, uint8(9), g.Reserves(White).Stones)
		require.Equal(t, uint8(9), g.Reserves(Black).Stones)
	})

	t.Run("terminal results are relative to the side to move", func(t *testing.T) {
		g := mustPlay(t, 3, "a3", "a1", "b1", "b2", "c1")

		terminal, _ := g.Terminal()

		require.Equal(t, searcher.TerminalLoss, terminal)
	})
}

func TestFeatures(t *testing.T) {
	t.Run("encoding the side to move", func(t *testing.T) {
		g := mustPlay(t, 3, "a1", "c3", "Sb2")

		features := g.Features()

		require.Len(t, features, FeatureCount(3))
		// Black is to move: a1 is its flat, c3 and b2 are white's
		require.Equal(t, 1.0, features[0*planes+int(Flat)])
		require.Equal(t, 1.0, features[8*planes+3+int(Flat)])
		require.Equal(t, 1.0, features[4*planes+3+int(Wall)])
		tail := 9 * planes
		require.InDelta(t, 0.9, features[tail], 1e-9, "Black has nine of ten stones left")
		require.InDelta(t, 0.8, features[tail+1], 1e-9, "White has eight of ten stones left")
		require.Zero(t, features[tail+2], "The opening is over")
	})

	t.Run("action indexes are unique and in range", func(t *testing.T) {
		g := mustPlay(t, 4, "a1", "d4", "b1", "c1", "b1>", "a2")
		index := ActionIndex(4)
		seen := map[int]Move{}

		for _, m := range g.PopulateActions(nil) {
			i := index(m)
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, ActionCount(4))
			other, ok := seen[i]
			require.False(t, ok, "%v and %v share index %d", m, other, i)
			seen[i] = m
		}
	})
}

func TestString(t *testing.T) {
	g := mustPlay(t, 3, "a1", "c3", "b2", "a3")

	require.Equal(t, "2,x,1/x,1,x/2,x2 1 3", g.String())
}
