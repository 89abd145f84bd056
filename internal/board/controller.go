// Package board holds the client-side state machine behind optimistic
// drag-and-drop on the Kanban board: a move is applied to the visible state
// immediately, the confirming write runs in the background, and the outcome
// either commits the prediction or rolls the task back to the exact snapshot
// captured before the move.
package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"collabgo/backend/internal/models"
)

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrInvalidStatus = errors.New("invalid board status")
)

// DefaultConfirmTimeout bounds the confirming write when the caller has no
// stronger requirement. Expiry counts as failure and rolls the move back.
const DefaultConfirmTimeout = 5 * time.Second

// State of one prediction: Idle -> Predicted -> {Committed | RolledBack}.
type State int

const (
	StateIdle State = iota
	StatePredicted
	StateCommitted
	StateRolledBack
)

// TaskSnapshot is the controller's authoritative local view of one task.
// Mutations always produce a whole new snapshot value; the UI never sees a
// partially patched task.
type TaskSnapshot struct {
	ID          string
	Title       string
	Description string
	Status      string
	AssigneeID  string
}

// SnapshotOf projects a persisted task onto the board's local view.
func SnapshotOf(t models.Task) TaskSnapshot {
	return TaskSnapshot{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssigneeID:  t.AssigneeID,
	}
}

// StatusWriter issues the confirming write for a move. The context carries
// the controller's timeout; expiry counts as failure and triggers rollback.
type StatusWriter func(ctx context.Context, taskID, status string) (*models.Task, error)

// Controller holds exactly one snapshot per visible task plus the in-flight
// prediction, if any, for each.
type Controller struct {
	writer  StatusWriter
	timeout time.Duration

	mu       sync.Mutex
	tasks    map[string]TaskSnapshot
	inflight map[string]*Prediction

	onRollback func(taskID string, restored TaskSnapshot)
}

func NewController(writer StatusWriter, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &Controller{
		writer:   writer,
		timeout:  timeout,
		tasks:    make(map[string]TaskSnapshot),
		inflight: make(map[string]*Prediction),
	}
}

// SetRollbackNotifier registers a callback fired after a rollback restores a
// task, so the UI can show a transient failure notice (the card snapping
// back to its column).
func (c *Controller) SetRollbackNotifier(fn func(taskID string, restored TaskSnapshot)) {
	c.onRollback = fn
}

// Load seeds the board with the server's current view of the tasks.
func (c *Controller) Load(tasks []TaskSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tasks {
		c.tasks[t.ID] = t
	}
}

// Snapshot returns the currently visible snapshot of a task.
func (c *Controller) Snapshot(taskID string) (TaskSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[taskID]
	return t, ok
}

// Prediction tracks one optimistic move from application to reconciliation.
// The rollback target is captured once, at prediction time, and never
// mutated afterwards.
type Prediction struct {
	TaskID string

	ctrl      *Controller
	prev      TaskSnapshot
	predicted string
	state     State
	err       error
	done      chan struct{}
}

// State returns the prediction's current lifecycle state.
func (p *Prediction) State() State {
	p.ctrl.mu.Lock()
	defer p.ctrl.mu.Unlock()
	return p.state
}

// Err returns the failure that caused a rollback, if any.
func (p *Prediction) Err() error {
	p.ctrl.mu.Lock()
	defer p.ctrl.mu.Unlock()
	return p.err
}

// Done is closed once the prediction has been committed or rolled back.
func (p *Prediction) Done() <-chan struct{} { return p.done }

// ApplyPrediction synchronously mutates the visible snapshot's status and
// records the pre-mutation snapshot as the rollback target, then issues the
// confirming write in the background. A second prediction arriving before
// the first resolves replaces the visible value and inherits the first one's
// rollback target; only the newest prediction's outcome touches the board.
func (c *Controller) ApplyPrediction(taskID, newStatus string) (*Prediction, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	c.mu.Lock()
	snap, ok := c.tasks[taskID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownTask
	}

	p := &Prediction{
		TaskID:    taskID,
		ctrl:      c,
		prev:      snap,
		predicted: newStatus,
		state:     StatePredicted,
		done:      make(chan struct{}),
	}

	// Chained predictions share one rollback target: the last confirmed
	// snapshot, never the superseded prediction's unconfirmed value.
	if old := c.inflight[taskID]; old != nil {
		p.prev = old.prev
	}

	snap.Status = newStatus
	c.tasks[taskID] = snap
	c.inflight[taskID] = p
	c.mu.Unlock()

	go c.confirm(p)
	return p, nil
}

// confirm is the controller's only suspension point: the local mutation has
// already happened and is never blocked on the write.
func (c *Controller) confirm(p *Prediction) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	task, err := c.writer(ctx, p.TaskID, p.predicted)
	if err != nil {
		p.Rollback(err)
		return
	}
	p.Commit(task)
}

// Commit marks the prediction confirmed. The predicted value is kept as-is
// unless the server's response contradicts it, in which case the response
// value wins. Committing an already-resolved prediction is a no-op.
func (p *Prediction) Commit(task *models.Task) {
	c := p.ctrl
	c.mu.Lock()
	if p.state != StatePredicted {
		c.mu.Unlock()
		return
	}
	p.state = StateCommitted

	if c.inflight[p.TaskID] == p {
		delete(c.inflight, p.TaskID)
		if task != nil && task.Status != p.predicted {
			snap := c.tasks[p.TaskID]
			snap.Status = task.Status
			c.tasks[p.TaskID] = snap
		}
	}
	c.mu.Unlock()
	close(p.done)
}

// Rollback restores the exact snapshot captured at prediction time,
// discarding the predicted value entirely. A superseded prediction resolves
// without touching the board; the newest one owns the outcome.
func (p *Prediction) Rollback(cause error) {
	c := p.ctrl
	c.mu.Lock()
	if p.state != StatePredicted {
		c.mu.Unlock()
		return
	}
	p.state = StateRolledBack
	p.err = cause

	var notify bool
	var restored TaskSnapshot
	if c.inflight[p.TaskID] == p {
		delete(c.inflight, p.TaskID)
		c.tasks[p.TaskID] = p.prev
		restored = p.prev
		notify = c.onRollback != nil
	}
	c.mu.Unlock()
	close(p.done)

	if notify {
		c.onRollback(p.TaskID, restored)
	}
}
