package service

import (
	"context"
	"errors"
	"log"

	"lis_client/internal/api"
	"lis_client/internal/model"
	"lis_client/internal/permission"
)

var (
	ErrNotPermitted  = errors.New("your role does not permit this action")
	ErrInvalidResult = errors.New("result must be Positive or Negative")
	ErrInvalidRole   = errors.New("role must be Admin, Technician or Supervisor")
)

// Renderer receives the refreshed entry listing after every successful
// transition. It is the explicit render-on-change contract between this
// core and whatever view sits on top of it.
type Renderer interface {
	RenderEntries([]model.Entry)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func([]model.Entry)

func (f RendererFunc) RenderEntries(entries []model.Entry) { f(entries) }

// Workflow drives entry state transitions. Every transition is checked
// against the acting session's role before a request is issued; the backend
// remains the authority on transition legality and its rejection detail is
// surfaced verbatim. No transition is retried.
type Workflow interface {
	Create(ctx context.Context, sess model.Session, patientID, testName string) (*model.Entry, error)
	Process(ctx context.Context, sess model.Session, entryID int) (*model.Entry, error)
	Verify(ctx context.Context, sess model.Session, entryID int, result string) (*model.Entry, error)
}

type workflow struct {
	client   *api.Client
	renderer Renderer
}

// NewWorkflow creates a new Workflow. renderer may be nil when no view
// needs refreshing (tests, one-shot commands).
func NewWorkflow(client *api.Client, renderer Renderer) Workflow {
	return &workflow{client: client, renderer: renderer}
}

// Create orders a test for a patient, producing a Pending entry. The backend
// rejects a patient already referenced by any existing entry.
func (w *workflow) Create(ctx context.Context, sess model.Session, patientID, testName string) (*model.Entry, error) {
	if !permission.For(sess.Role).CanCreateEntries {
		return nil, ErrNotPermitted
	}

	entry, err := w.client.CreateEntry(ctx, patientID, testName, sess.UserID, sess.Name)
	if err != nil {
		return nil, err
	}
	w.refresh(ctx)
	return entry, nil
}

// Process moves a Pending entry to Processed.
func (w *workflow) Process(ctx context.Context, sess model.Session, entryID int) (*model.Entry, error) {
	if !permission.For(sess.Role).CanProcess {
		return nil, ErrNotPermitted
	}

	entry, err := w.client.ProcessEntry(ctx, entryID, sess.UserID)
	if err != nil {
		return nil, err
	}
	w.refresh(ctx)
	return entry, nil
}

// Verify moves a Processed entry to Verified and records its result. The
// result must parse to Positive or Negative before any request is sent.
func (w *workflow) Verify(ctx context.Context, sess model.Session, entryID int, result string) (*model.Entry, error) {
	parsed, ok := model.ParseResult(result)
	if !ok {
		return nil, ErrInvalidResult
	}
	if !permission.For(sess.Role).CanVerify {
		return nil, ErrNotPermitted
	}

	entry, err := w.client.VerifyEntry(ctx, entryID, parsed, sess.UserID)
	if err != nil {
		return nil, err
	}
	w.refresh(ctx)
	return entry, nil
}

// refresh re-fetches the entry listing and hands it to the renderer. It runs
// after the transition response has been applied, so within one user action
// the ordering is transition first, refresh second. A failed refresh is
// logged rather than propagated: the transition itself succeeded and the
// view catches up on its next cycle.
func (w *workflow) refresh(ctx context.Context) {
	if w.renderer == nil {
		return
	}
	entries, err := w.client.ListEntries(ctx)
	if err != nil {
		log.Printf("Failed to refresh entries after transition: %v", err)
		return
	}
	w.renderer.RenderEntries(entries)
}
