package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func recorded(t *testing.T) *Recorder {
	t.Helper()
	r := NewRecorder(1)
	v := []float64{0, -65, 0}
	r.Observe(0, v)
	v[1] = -64.5
	r.Observe(0.025, v)
	v[1] = -64.0
	r.Observe(0.05, v)
	return r
}

func TestRecorderCollectsProbe(t *testing.T) {
	r := recorded(t)
	require.Equal(t, 1, r.CV())
	require.Equal(t, []Sample{
		{Time: 0, Voltage: -65},
		{Time: 0.025, Voltage: -64.5},
		{Time: 0.05, Voltage: -64.0},
	}, r.Samples())

	r.Reset()
	require.Empty(t, r.Samples())
}

func TestWriteCSV(t *testing.T) {
	r := recorded(t)
	var sb strings.Builder
	require.NoError(t, r.WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "t_ms,v_mv", lines[0])
	require.Equal(t, "0,-65", lines[1])
	require.Equal(t, "0.025,-64.5", lines[2])
	require.Equal(t, "0.05,-64", lines[3])
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	r := recorded(t)
	id, err := store.SaveRun("unit test", r)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := store.LoadRun(id)
	require.NoError(t, err)
	require.Equal(t, r.Samples(), got)
}

func TestStoreSeparatesRuns(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	a := NewRecorder(0)
	a.Observe(0, []float64{-65})
	b := NewRecorder(0)
	b.Observe(0, []float64{-10})
	b.Observe(1, []float64{-20})

	idA, err := store.SaveRun("a", a)
	require.NoError(t, err)
	idB, err := store.SaveRun("b", b)
	require.NoError(t, err)
	require.NotEqual(t, idA, idB)

	gotA, err := store.LoadRun(idA)
	require.NoError(t, err)
	require.Len(t, gotA, 1)
	gotB, err := store.LoadRun(idB)
	require.NoError(t, err)
	require.Len(t, gotB, 2)
}

func TestLoadMissingRun(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadRun(12345)
	require.NoError(t, err)
	require.Empty(t, got)
}
