package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"collabgo/backend/internal/board"
	"collabgo/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerResult struct {
	task *models.Task
	err  error
}

type writerCall struct {
	taskID string
	status string
	resp   chan writerResult
}

// scriptedWriter lets a test hold the confirming write open and resolve it
// on demand.
func scriptedWriter() (board.StatusWriter, chan writerCall) {
	calls := make(chan writerCall, 4)
	writer := func(ctx context.Context, taskID, status string) (*models.Task, error) {
		call := writerCall{taskID: taskID, status: status, resp: make(chan writerResult, 1)}
		calls <- call
		select {
		case res := <-call.resp:
			return res.task, res.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return writer, calls
}

func seededController(writer board.StatusWriter) *board.Controller {
	c := board.NewController(writer, time.Second)
	c.Load([]board.TaskSnapshot{{
		ID:          "t1",
		Title:       "Design landing page",
		Description: "hero section first",
		Status:      models.StatusToDo,
		AssigneeID:  "user_f",
	}})
	return c
}

func awaitCall(t *testing.T, calls chan writerCall) writerCall {
	t.Helper()
	select {
	case call := <-calls:
		return call
	case <-time.After(time.Second):
		t.Fatal("confirming write was never issued")
		return writerCall{}
	}
}

func awaitDone(t *testing.T, p *board.Prediction) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("prediction never resolved")
	}
}

func TestApplyPrediction_MutatesVisibleStateSynchronously(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	// Visible immediately, before the write resolves.
	snap, ok := c.Snapshot("t1")
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, snap.Status)
	assert.Equal(t, board.StatePredicted, p.State())

	call := awaitCall(t, calls)
	assert.Equal(t, "t1", call.taskID)
	assert.Equal(t, models.StatusInProgress, call.status)
	call.resp <- writerResult{task: &models.Task{ID: "t1", Status: models.StatusInProgress}}
	awaitDone(t, p)
}

func TestCommit_KeepsPredictedValue(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	call := awaitCall(t, calls)
	call.resp <- writerResult{task: &models.Task{ID: "t1", Status: models.StatusInProgress}}
	awaitDone(t, p)

	assert.Equal(t, board.StateCommitted, p.State())
	snap, _ := c.Snapshot("t1")
	assert.Equal(t, models.StatusInProgress, snap.Status)
}

func TestCommit_ServerValueWinsOnContradiction(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	call := awaitCall(t, calls)
	call.resp <- writerResult{task: &models.Task{ID: "t1", Status: models.StatusDone}}
	awaitDone(t, p)

	assert.Equal(t, board.StateCommitted, p.State())
	snap, _ := c.Snapshot("t1")
	assert.Equal(t, models.StatusDone, snap.Status)
}

func TestCommit_Idempotent(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	call := awaitCall(t, calls)
	call.resp <- writerResult{task: &models.Task{ID: "t1", Status: models.StatusInProgress}}
	awaitDone(t, p)

	before, _ := c.Snapshot("t1")

	// A duplicate success callback must change nothing.
	p.Commit(&models.Task{ID: "t1", Status: models.StatusDone})

	after, _ := c.Snapshot("t1")
	assert.Equal(t, before, after)
	assert.Equal(t, board.StateCommitted, p.State())
}

func TestRollback_RestoresExactPriorSnapshot(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	call := awaitCall(t, calls)
	call.resp <- writerResult{err: errors.New("500 from server")}
	awaitDone(t, p)

	assert.Equal(t, board.StateRolledBack, p.State())
	assert.Error(t, p.Err())

	snap, _ := c.Snapshot("t1")
	assert.Equal(t, board.TaskSnapshot{
		ID:          "t1",
		Title:       "Design landing page",
		Description: "hero section first",
		Status:      models.StatusToDo,
		AssigneeID:  "user_f",
	}, snap, "the whole pre-mutation snapshot comes back, not a merge")
}

func TestTimeout_CountsAsFailure(t *testing.T) {
	writer, _ := scriptedWriter()
	c := board.NewController(writer, 20*time.Millisecond)
	c.Load([]board.TaskSnapshot{{ID: "t1", Status: models.StatusToDo}})

	p, err := c.ApplyPrediction("t1", models.StatusDone)
	require.NoError(t, err)

	// Never resolve the call; the context deadline does it.
	awaitDone(t, p)

	assert.Equal(t, board.StateRolledBack, p.State())
	assert.ErrorIs(t, p.Err(), context.DeadlineExceeded)
	snap, _ := c.Snapshot("t1")
	assert.Equal(t, models.StatusToDo, snap.Status)
}

func TestReplacedPrediction_NewestOutcomeWins(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	first, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)
	firstCall := awaitCall(t, calls)

	second, err := c.ApplyPrediction("t1", models.StatusDone)
	require.NoError(t, err)
	secondCall := awaitCall(t, calls)

	// The superseded prediction failing must not disturb the board.
	firstCall.resp <- writerResult{err: errors.New("rejected")}
	awaitDone(t, first)
	snap, _ := c.Snapshot("t1")
	assert.Equal(t, models.StatusDone, snap.Status)

	secondCall.resp <- writerResult{task: &models.Task{ID: "t1", Status: models.StatusDone}}
	awaitDone(t, second)
	assert.Equal(t, board.StateCommitted, second.State())
	snap, _ = c.Snapshot("t1")
	assert.Equal(t, models.StatusDone, snap.Status)
}

func TestReplacedPrediction_BothFail_RestoresConfirmedSnapshot(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	first, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)
	firstCall := awaitCall(t, calls)

	second, err := c.ApplyPrediction("t1", models.StatusDone)
	require.NoError(t, err)
	secondCall := awaitCall(t, calls)

	firstCall.resp <- writerResult{err: errors.New("rejected")}
	awaitDone(t, first)

	secondCall.resp <- writerResult{err: errors.New("rejected")}
	awaitDone(t, second)

	// Neither guess was confirmed, so the board must return to the last
	// server-confirmed status, not the first prediction's value.
	snap, _ := c.Snapshot("t1")
	assert.Equal(t, models.StatusToDo, snap.Status)
}

func TestRollbackNotifier_FiresWithRestoredSnapshot(t *testing.T) {
	writer, calls := scriptedWriter()
	c := seededController(writer)

	notified := make(chan board.TaskSnapshot, 1)
	c.SetRollbackNotifier(func(taskID string, restored board.TaskSnapshot) {
		notified <- restored
	})

	p, err := c.ApplyPrediction("t1", models.StatusInProgress)
	require.NoError(t, err)

	call := awaitCall(t, calls)
	call.resp <- writerResult{err: errors.New("network down")}
	awaitDone(t, p)

	select {
	case restored := <-notified:
		assert.Equal(t, models.StatusToDo, restored.Status)
	case <-time.After(time.Second):
		t.Fatal("rollback notifier never fired")
	}
}

func TestApplyPrediction_Validation(t *testing.T) {
	writer, _ := scriptedWriter()
	c := seededController(writer)

	_, err := c.ApplyPrediction("nope", models.StatusDone)
	assert.ErrorIs(t, err, board.ErrUnknownTask)

	_, err = c.ApplyPrediction("t1", "Parked")
	assert.ErrorIs(t, err, board.ErrInvalidStatus)
}
