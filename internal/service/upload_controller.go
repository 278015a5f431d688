package service

import (
	"context"
	"log"
	"sync"
	"time"

	"stmtview/internal/domain"
	"stmtview/internal/normalizer"
	"stmtview/internal/parser"
	"stmtview/internal/port"
)

// TransitionListener is notified of every committed state change.
// Listeners run while the controller lock is held and must not call back into it.
type TransitionListener func(domain.Transition)

// UploadController defines the statement upload workflow contract.
type UploadController interface {
	SelectFile(file domain.SelectedFile)
	Submit(ctx context.Context) error
	SubmitAsync(ctx context.Context) (<-chan struct{}, error)
	Clear()
	Snapshot() domain.UploadView
	Subscribe(listener TransitionListener)
}

type uploadController struct {
	parser port.StatementParser
	now    func() time.Time

	mu         sync.Mutex
	state      domain.UploadState
	file       *domain.SelectedFile
	errMsg     string
	statement  *domain.NormalizedStatement
	generation uint64
	updatedAt  time.Time
	listeners  []TransitionListener
}

// NewUploadController creates an UploadController in the idle state.
func NewUploadController(p port.StatementParser) UploadController {
	c := &uploadController{
		parser: p,
		now:    time.Now,
		state:  domain.UploadStateIdle,
	}
	c.updatedAt = c.now()
	return c
}

// SelectFile records file and moves to ready, dropping any previous result.
// Selecting while a submission is pending supersedes it: its settlement is discarded.
func (c *uploadController) SelectFile(file domain.SelectedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.UploadStateSubmitting {
		log.Printf("uploadController.SelectFile: superseding pending submission (generation %d)", c.generation)
	}
	c.generation++
	c.file = &file
	c.errMsg = ""
	c.statement = nil
	c.transition(domain.UploadStateReady)
}

// Submit posts the selected file and blocks until the request settles.
// It returns a ValidationError when no file is selected and ErrSubmitInProgress
// when a request is already pending; settlement failures are reported through
// the failed state, not the returned error.
func (c *uploadController) Submit(ctx context.Context) error {
	done, err := c.SubmitAsync(ctx)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// SubmitAsync validates and enters the submitting state synchronously, then runs
// the request in the background. The returned channel is closed at settlement.
func (c *uploadController) SubmitAsync(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.state == domain.UploadStateSubmitting {
		c.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}
	if c.file == nil || !c.state.CanSubmit() {
		c.mu.Unlock()
		return nil, &domain.ValidationError{Err: domain.ErrNoFileSelected}
	}

	c.generation++
	gen := c.generation
	file := *c.file
	c.errMsg = ""
	c.statement = nil
	c.transition(domain.UploadStateSubmitting)
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := c.parser.Parse(ctx, file)
		c.settle(gen, file.Name, resp, err)
	}()
	return done, nil
}

func (c *uploadController) settle(gen uint64, fileName string, resp *domain.ParseResponse, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != domain.UploadStateSubmitting {
		log.Printf("uploadController.settle: discarding stale result for %q (generation %d, current %d, state %s)",
			fileName, gen, c.generation, c.state)
		return
	}

	if err == nil && (resp == nil || !resp.Success) {
		svcErr := &parser.ServiceError{}
		if resp != nil {
			svcErr.Message = resp.Error
		}
		err = svcErr
	}
	if err != nil {
		log.Printf("uploadController.settle: %q failed: %v", fileName, err)
		c.errMsg = parser.FailureMessage(err)
		c.transition(domain.UploadStateFailed)
		return
	}

	statement := normalizer.Normalize(resp.Bank, resp.Fields)
	c.statement = &statement
	c.transition(domain.UploadStateSucceeded)
}

// Clear resets the controller to idle. Any pending settlement is discarded.
func (c *uploadController) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.file = nil
	c.errMsg = ""
	c.statement = nil
	c.transition(domain.UploadStateIdle)
}

// Snapshot returns a copy of the current observable state.
func (c *uploadController) Snapshot() domain.UploadView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe registers listener for all subsequent transitions.
func (c *uploadController) Subscribe(listener TransitionListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// transition must be called with mu held.
func (c *uploadController) transition(to domain.UploadState) {
	from := c.state
	c.state = to
	c.updatedAt = c.now()

	if len(c.listeners) == 0 {
		return
	}
	t := domain.Transition{From: from, To: to, View: c.viewLocked()}
	for _, l := range c.listeners {
		l(t)
	}
}

func (c *uploadController) viewLocked() domain.UploadView {
	view := domain.UploadView{
		State:     c.state,
		Error:     c.errMsg,
		UpdatedAt: c.updatedAt,
	}
	if c.file != nil {
		view.FileName = c.file.Name
	}
	if c.statement != nil {
		s := *c.statement
		s.Transactions = append([]domain.Transaction(nil), c.statement.Transactions...)
		if s.Transactions == nil {
			s.Transactions = []domain.Transaction{}
		}
		view.Statement = &s
	}
	return view
}
