package ion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	nodes := []int{0, 2, 5}

	na := NewState(Na, nodes)
	k := NewState(K, nodes)
	ca := NewState(Ca, nodes)

	require.Equal(t, 3, na.Len())
	for i := 0; i < 3; i++ {
		require.Equal(t, 50.0, na.ReversalPotential()[i])
		require.Equal(t, 10.0, na.InternalConcentration()[i])
		require.Equal(t, 140.0, na.ExternalConcentration()[i])

		require.Equal(t, -77.0, k.ReversalPotential()[i])
		require.Equal(t, 54.4, k.InternalConcentration()[i])
		require.Equal(t, 2.5, k.ExternalConcentration()[i])

		require.InDelta(t, 12.5*math.Log(2.0/5e-5), ca.ReversalPotential()[i], 1e-12)
		require.Equal(t, 5e-5, ca.InternalConcentration()[i])
		require.Equal(t, 2.0, ca.ExternalConcentration()[i])
	}
}

func TestViewMapsLocalPositions(t *testing.T) {
	s := NewState(Na, []int{1, 3, 7, 9})

	v, err := s.ViewFor([]int{7, 1}, false)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())

	s.ReversalPotential()[2] = 42 // CV 7
	require.Equal(t, 42.0, v.ReversalPotential(0))
	require.Equal(t, 50.0, v.ReversalPotential(1))
	require.Equal(t, 140.0, v.ExternalConcentration(0))
	require.Equal(t, 10.0, v.InternalConcentration(1))
}

func TestViewForMissingCV(t *testing.T) {
	s := NewState(K, []int{0, 1})
	_, err := s.ViewFor([]int{2}, false)
	require.Error(t, err)
}

func TestOnlyProviderWrites(t *testing.T) {
	s := NewState(K, []int{0, 1})

	reader, err := s.ViewFor([]int{0, 1}, false)
	require.NoError(t, err)
	writer, err := s.ViewFor([]int{0, 1}, true)
	require.NoError(t, err)

	reader.SetReversalPotential(0, -10)
	require.Equal(t, -77.0, s.ReversalPotential()[0], "non-provider write must be dropped")

	writer.SetReversalPotential(0, -10)
	require.Equal(t, -10.0, s.ReversalPotential()[0])
}

func TestKindString(t *testing.T) {
	require.Equal(t, "na", Na.String())
	require.Equal(t, "k", K.String())
	require.Equal(t, "ca", Ca.String())
}
