// Package controller owns the local expense cache and keeps it in sync with
// the remote store. Every mutation is followed by a full re-fetch; the
// displayed view is derived from the cache on demand.
package controller

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/store"
	"github.com/Veraticus/spice-ledger/internal/view"
	"golang.org/x/text/language"
)

// Indicator messages shown when the server gave no usable message.
const (
	MsgRequiredFields = "Category and Amount are required."
	MsgLoadFailed     = "Failed to load expenses. Please try again later."
	MsgAddFailed      = "Failed to add expense."
	MsgDeleteFailed   = "Failed to delete expense."

	// DeletePrompt is the question asked before a delete.
	DeletePrompt = "Are you sure you want to delete this expense?"
)

// Store is the remote expense collection.
type Store interface {
	List(ctx context.Context) ([]model.Expense, error)
	Create(ctx context.Context, draft model.NewExpense) (store.CreateResult, error)
	Delete(ctx context.Context, id int64) error
}

// Confirmer is the yes/no gate in front of a delete.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every delete.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Renderer receives a fresh snapshot after every state change.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

// Render implements Renderer.
func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

type subscription struct {
	renderer Renderer
	id       int
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfirmer sets the delete confirmation gate.
func WithConfirmer(c Confirmer) Option {
	return func(ctrl *Controller) {
		ctrl.confirmer = c
	}
}

// WithFilterPolicy sets how filter text matches categories.
func WithFilterPolicy(p view.FilterPolicy) Option {
	return func(ctrl *Controller) {
		ctrl.filter.Policy = p
	}
}

// WithSortCycle sets the header click cycle.
func WithSortCycle(m view.CycleMode) Option {
	return func(ctrl *Controller) {
		ctrl.cycle = m
	}
}

// WithLocale sets the collation used for category ordering.
func WithLocale(tag language.Tag) Option {
	return func(ctrl *Controller) {
		ctrl.locale = tag
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ctrl *Controller) {
		ctrl.logger = logger
	}
}

// Controller is the single owner of the cache, the sort directive, the
// filter text and the two error indicators. It is safe for use from
// multiple goroutines; network calls run without holding the lock.
type Controller struct {
	store     Store
	confirmer Confirmer
	logger    *slog.Logger
	locale    language.Tag
	formError string
	listError string
	cache     []model.Expense
	renderers []subscription
	filter    view.Filter
	directive view.Directive
	cycle     view.CycleMode
	loadToken uint64
	revision  uint64
	nextSubID int
	mu        sync.Mutex
	loaded    bool
}

// New creates a controller backed by s. Without a confirmer every delete
// is declined.
func New(s Store, opts ...Option) *Controller {
	c := &Controller{
		store:  s,
		logger: slog.Default(),
		locale: language.Und,
		confirmer: ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, nil
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers r for render calls. It returns a function that
// removes the subscription.
func (c *Controller) Subscribe(r Renderer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.renderers = append(c.renderers, subscription{id: id, renderer: r})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.renderers = slices.DeleteFunc(c.renderers, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Load replaces the cache with the server's current collection. A failed
// load leaves the cache untouched and sets the list error. A response that
// was overtaken by a newer Load is discarded and ErrStaleResponse returned.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadToken++
	token := c.loadToken
	c.mu.Unlock()

	records, err := c.store.List(ctx)

	c.mu.Lock()
	if token != c.loadToken {
		c.mu.Unlock()
		common.LogDebug(c.logger, "Discarding stale expense list", common.Fields{
			"token":  token,
			"latest": c.loadToken,
		})
		return common.ErrStaleResponse
	}

	if err != nil {
		c.listError = MsgLoadFailed
		c.mu.Unlock()
		common.LogError(c.logger, err, "Error fetching expenses", nil)
		c.notify()
		return err
	}

	c.cache = slices.Clone(records)
	c.loaded = true
	c.listError = ""
	c.mu.Unlock()

	c.notify()
	return nil
}

// Add creates an expense and re-fetches the collection. Blank input sets
// the form error without any network call.
func (c *Controller) Add(ctx context.Context, category, amount string) error {
	category = strings.TrimSpace(category)
	if category == "" || amount == "" {
		c.setFormError(MsgRequiredFields)
		return &common.ValidationError{Message: MsgRequiredFields}
	}

	if _, err := c.store.Create(ctx, model.NewExpense{Category: category, Amount: amount}); err != nil {
		common.LogError(c.logger, err, "Error adding expense", common.Fields{"category": category})
		c.setFormError(common.UserMessage(err, MsgAddFailed))
		return err
	}

	c.setFormError("")
	return c.Load(ctx)
}

// Delete asks for confirmation, deletes the expense and re-fetches. A
// declined confirmation does nothing and reports false.
func (c *Controller) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := c.confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		common.LogDebug(c.logger, "Delete confirmation aborted", common.Fields{"id": id, "error": err.Error()})
		return false, nil
	}
	if !ok {
		return false, nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		common.LogError(c.logger, err, "Error deleting expense", common.Fields{"id": id})
		c.mu.Lock()
		c.listError = common.UserMessage(err, MsgDeleteFailed)
		c.mu.Unlock()
		c.notify()
		return true, err
	}

	return true, c.Load(ctx)
}

// ClickHeader advances the sort directive for column col.
func (c *Controller) ClickHeader(col view.Column) {
	c.mu.Lock()
	c.directive = c.directive.Click(col, c.cycle)
	c.mu.Unlock()
	c.notify()
}

// SetSort replaces the sort directive.
func (c *Controller) SetSort(d view.Directive) {
	c.mu.Lock()
	c.directive = view.NewDirective(d.Column, d.Direction)
	c.mu.Unlock()
	c.notify()
}

// SetFilter replaces the filter text.
func (c *Controller) SetFilter(text string) {
	c.mu.Lock()
	if c.filter.Text == text {
		c.mu.Unlock()
		return
	}
	c.filter.Text = text
	c.mu.Unlock()
	c.notify()
}

// ClearFormError resets the form indicator, e.g. when the form is reopened.
func (c *Controller) ClearFormError() {
	c.setFormError("")
}

// Records returns a copy of the cache in server order.
func (c *Controller) Records() []model.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cache)
}

// Snapshot derives the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	c.revision++
	return Snapshot{
		View:      view.DeriveIn(c.locale, c.cache, c.filter, c.directive),
		Directive: c.directive,
		Filter:    c.filter,
		FormError: c.formError,
		ListError: c.listError,
		Total:     len(c.cache),
		Loaded:    c.loaded,
		Revision:  c.revision,
	}
}

func (c *Controller) setFormError(msg string) {
	c.mu.Lock()
	c.formError = msg
	c.mu.Unlock()
	c.notify()
}

// notify renders a snapshot to every subscriber. It must be called
// without holding the lock.
func (c *Controller) notify() {
	c.mu.Lock()
	if len(c.renderers) == 0 {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	renderers := slices.Clone(c.renderers)
	c.mu.Unlock()

	for _, s := range renderers {
		s.renderer.Render(snap)
	}
}
