package session

import (
	"github.com/dshills/dragflow/internal/container"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/group"
)

// Controller is the capability surface an adapter needs from a managed
// container: its item model and its event sink. One controller per
// container, registered with the Registry at setup time.
type Controller interface {
	Model() *container.Model
	Sink() *event.Sink
}

// GroupResolver is an optional controller capability overriding the
// model's own group. Checked once by interface assertion, never through a
// chain of optional calls.
type GroupResolver interface {
	ResolveGroup() *group.Group
}

// CloneStyler is an optional controller capability naming the
// drag-transient classes stripped from clones made of its items.
type CloneStyler interface {
	TransientClasses() []string
}

// basicController is the stock Controller implementation.
type basicController struct {
	model   *container.Model
	sink    *event.Sink
	classes []string
}

// NewController pairs a model with its sink. The container's group comes
// from the model; transient is the class set stripped from drag clones.
func NewController(model *container.Model, sink *event.Sink, transient ...string) Controller {
	return &basicController{model: model, sink: sink, classes: transient}
}

func (c *basicController) Model() *container.Model { return c.model }

func (c *basicController) Sink() *event.Sink { return c.sink }

func (c *basicController) TransientClasses() []string { return c.classes }

// resolveGroup returns the controller's group: the GroupResolver
// capability when implemented, else the model's group.
func resolveGroup(c Controller) *group.Group {
	if c == nil {
		return nil
	}
	if gr, ok := c.(GroupResolver); ok {
		if g := gr.ResolveGroup(); g != nil {
			return g
		}
	}
	if m := c.Model(); m != nil {
		return m.Group()
	}
	return nil
}

// groupName returns the controller's group name, or "".
func groupName(c Controller) string {
	if g := resolveGroup(c); g != nil {
		return g.Name
	}
	return ""
}
