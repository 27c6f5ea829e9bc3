package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_AssignsSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-b")))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-a")))

	runs, err := s.ReadRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Insertion order, not ID order.
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, int64(1), runs[0].Seq)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, int64(2), runs[1].Seq)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1")
	require.NoError(t, s.WriteRun(ctx, run))
	run.CircuitName = "changed"
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "test", got.CircuitName)
}

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1")
	run.Status = StatusFailed
	run.ErrorCode = "UNSUPPORTED_GATE"
	run.Error = "boom"
	run.Options = RunOptions{UnknownInputs: []int{1, 0}, TrackReset: true}
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	run.Seq = 1
	assert.Equal(t, run, got)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.ReadLatestRun(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReadLatestRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"z", "y", "x"} {
		require.NoError(t, s.WriteRun(ctx, createTestRun(id)))
	}

	got, err := s.ReadLatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, int64(3), got.Seq)
}

func TestReadRuns_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ReadRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestWriteDecision_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteDecision(context.Background(), createTestDecision("ghost", 1, "removed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestWriteDecision_RejectsUnknownOutcome(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1")))

	err := s.WriteDecision(ctx, createTestDecision("run-1", 1, "exploded"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECK")
}

func TestReadDecisions_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1")))

	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.WriteDecision(ctx, createTestDecision("run-1", seq, "unchanged")))
	}

	got, err := s.ReadDecisions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, d := range got {
		assert.Equal(t, int64(i+1), d.Seq)
		assert.Equal(t, [2]string{"unknown", "unknown"}, d.States)
	}

	none, err := s.ReadDecisions(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOutcomeCounts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1")))

	outcomes := []string{"removed", "replaced", "replaced", "unchanged", "removed", "removed"}
	for i, o := range outcomes {
		require.NoError(t, s.WriteDecision(ctx, createTestDecision("run-1", int64(i+1), o)))
	}

	stats, err := s.OutcomeCounts(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Swaps)
	assert.Equal(t, 3, stats.Removed)
	assert.Equal(t, 2, stats.Replaced)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestMarshalOptions_Canonical(t *testing.T) {
	s, err := marshalOptions(RunOptions{UnknownInputs: []int{2}, TrackReset: true})
	require.NoError(t, err)
	assert.Equal(t, `{"track_reset":true,"unknown_inputs":[2]}`, s)

	o, err := unmarshalOptions(`{"track_reset":false,"unknown_inputs":null}`)
	require.NoError(t, err)
	assert.Equal(t, []int{}, o.UnknownInputs)
}

func TestUnmarshalStates_Malformed(t *testing.T) {
	_, err := unmarshalStates(`["only one"]`)
	assert.Error(t, err)

	_, err = unmarshalStates(`not json`)
	assert.Error(t, err)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	// Version nibble.
	assert.Equal(t, byte('7'), a[14])
}
