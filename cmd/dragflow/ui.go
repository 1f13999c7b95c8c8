package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/sjson"

	"github.com/dshills/dragflow/internal/announce"
	"github.com/dshills/dragflow/internal/container"
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/input/keynav"
	"github.com/dshills/dragflow/internal/input/pointerdrag"
	"github.com/dshills/dragflow/internal/log"
	"github.com/dshills/dragflow/internal/options"
	"github.com/dshills/dragflow/internal/selection"
	"github.com/dshills/dragflow/internal/session"
)

// seedHTML is the demo's initial layout, pulled through the dom bridge
// the same way a host application would hand over its markup.
const seedHTML = `
<div id="board">
  <ul id="todo">
    <li id="t1" class="card">water the plants</li>
    <li id="t2" class="card">fix the gate latch</li>
    <li id="t3" class="card">book dentist</li>
    <li id="t4" class="card">return library books</li>
  </ul>
  <ul id="done">
    <li id="d1" class="card">take out recycling</li>
    <li id="d2" class="card">renew insurance</li>
  </ul>
</div>`

const (
	itemHeight = 2
	maxLogRows = 8
)

// lane is one rendered list: its container controller, selection store,
// and screen column.
type lane struct {
	id    string
	el    *dom.Element
	ctrl  session.Controller
	store *selection.Store
}

type ui struct {
	mu sync.Mutex

	screen     tcell.Screen
	logger     *log.Logger
	exportPath string

	opts    options.Options
	root    *dom.Element
	reg     *session.Registry
	lanes   []*lane
	pointer *pointerdrag.Adapter
	keys    *keynav.Adapter
	ann     *announce.Recorder

	active    int
	mouseDown bool
	events    []string
	status    string
}

func newUI(opts options.Options, logger *log.Logger, exportPath string) (*ui, error) {
	body, err := dom.ParseHTMLString(seedHTML)
	if err != nil {
		return nil, fmt.Errorf("parse seed layout: %w", err)
	}
	root := dom.FindByID(body, "board")
	if root == nil {
		return nil, fmt.Errorf("seed layout has no board element")
	}

	u := &ui{
		logger:     logger.WithComponent("ui"),
		exportPath: exportPath,
		root:       root,
		ann:        &announce.Recorder{},
	}

	u.reg = session.NewRegistry(
		session.WithLogger(logger),
		session.WithTransientClasses(opts.TransientClasses()...),
	)

	draggable, err := opts.DraggableSelector()
	if err != nil {
		return nil, err
	}
	for _, ulEl := range dom.FindAll(root, dom.MustSelector("ul")) {
		ln := &lane{id: ulEl.ID(), el: ulEl}
		model := container.New(ulEl,
			container.WithID(ln.id),
			container.WithGroup(opts.EffectiveGroup()),
			container.WithEligible(draggable),
		)
		sink := event.NewSink(ln.id)
		u.watchSink(ln.id, sink)
		ln.ctrl = session.NewController(model, sink, opts.TransientClasses()...)
		ln.store = selection.NewStore(model, sink, selection.WithSelectedClass(opts.SelectedClass))
		if err := u.reg.Register(ln.ctrl); err != nil {
			return nil, err
		}
		u.lanes = append(u.lanes, ln)
	}
	if len(u.lanes) == 0 {
		return nil, fmt.Errorf("seed layout has no lists")
	}

	u.buildAdapters(opts)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	u.screen = screen
	return u, nil
}

// buildAdapters (re)creates the input adapters from the option set.
// Callers hold u.mu or run before the event loop starts.
func (u *ui) buildAdapters(opts options.Options) {
	u.opts = opts

	handle, _ := opts.HandleSelector()
	filter, _ := opts.FilterSelector()
	u.pointer = pointerdrag.New(u.reg, u.root, pointerdrag.Config{
		Delay:               opts.Delay,
		DelayOnTouchOnly:    opts.DelayOnTouchOnly,
		TouchStartThreshold: opts.TouchStartThreshold,
		Swap:                opts.Swap(),
		Direction:           opts.Axis(),
		RevertOnCancel:      opts.RevertOnCancel,
		Handle:              handle,
		Filter:              filter,
		MultiDrag:           opts.MultiDrag,
		ChosenClass:         opts.ChosenClass,
	}, pointerdrag.WithLogger(u.logger))
	for _, ln := range u.lanes {
		u.pointer.BindSelection(ln.ctrl, ln.store)
	}

	u.keys = keynav.New(u.reg, keynav.Config{
		Enabled:      opts.EnableAccessibility,
		GrabbedClass: opts.ChosenClass,
		Direction:    opts.Axis(),
	}, keynav.WithLogger(u.logger), keynav.WithAnnouncer(u.ann))
	ln := u.lanes[u.active]
	u.keys.SetActive(ln.ctrl, ln.store)
}

// applyOptions is the live-reload hook: the watcher delivers a validated
// option set and the adapters are rebuilt around it mid-session.
func (u *ui) applyOptions(opts options.Options) {
	u.mu.Lock()
	pointer := u.pointer
	u.mu.Unlock()
	// Outside the lock: teardown emits cleanup events whose log handler
	// takes it.
	pointer.Teardown()

	u.mu.Lock()
	defer u.mu.Unlock()
	u.buildAdapters(opts)
	u.status = "options reloaded"
	u.logger.Info("options reloaded")
	if u.screen != nil {
		u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (u *ui) watchSink(name string, sink *event.Sink) {
	_, _ = sink.OnFunc(event.TypeAny, func(e event.Event) error {
		u.mu.Lock()
		defer u.mu.Unlock()
		line := fmt.Sprintf("%-6s %-8s", name, e.Type)
		if sp, ok := e.Sort(); ok && sp.Item != nil {
			line += " " + sp.Item.ID()
			if sp.NewIndex != event.NoIndex {
				line += fmt.Sprintf(" -> %d", sp.NewIndex)
			}
		}
		u.events = append(u.events, line)
		if len(u.events) > maxLogRows {
			u.events = u.events[len(u.events)-maxLogRows:]
		}
		return nil
	})
}

func (u *ui) run() error {
	defer u.screen.Fini()

	for {
		u.layout()
		u.render()

		switch ev := u.screen.PollEvent().(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw request from the reload hook.
		case *tcell.EventKey:
			if quit := u.handleKey(ev); quit {
				return u.export()
			}
		case *tcell.EventMouse:
			u.handleMouse(ev)
		case nil:
			return nil
		}
	}
}

func (u *ui) handleKey(ev *tcell.EventKey) bool {
	u.mu.Lock()
	keys := u.keys
	u.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		u.switchLane()
		return false
	case tcell.KeyUp:
		keys.HandleKey(keynav.KeyUp, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyDown:
		keys.HandleKey(keynav.KeyDown, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyLeft:
		keys.HandleKey(keynav.KeyLeft, false)
	case tcell.KeyRight:
		keys.HandleKey(keynav.KeyRight, false)
	case tcell.KeyHome:
		keys.HandleKey(keynav.KeyHome, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyEnd:
		keys.HandleKey(keynav.KeyEnd, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyEnter:
		keys.HandleKey(keynav.KeyEnter, false)
	case tcell.KeyEscape:
		keys.HandleKey(keynav.KeyEscape, false)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			keys.HandleKey(keynav.KeySpace, ev.Modifiers()&tcell.ModShift != 0)
		case 'a':
			keys.HandleKey(keynav.KeySelectAll, false)
		case 'e':
			if err := u.export(); err != nil {
				u.setStatus(fmt.Sprintf("export failed: %v", err))
			} else {
				u.setStatus("state written to " + u.exportPath)
			}
		}
	}

	if msg := u.ann.Last(); msg != "" {
		u.setStatus(msg)
	}
	return false
}

// switchLane moves keyboard focus to the next list. Ignored mid-grab so
// an in-flight keyboard drag keeps its containers.
func (u *ui) switchLane() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.keys.Grabbing() {
		return
	}
	u.active = (u.active + 1) % len(u.lanes)
	ln := u.lanes[u.active]
	u.keys.SetActive(ln.ctrl, ln.store)
	u.status = "focused list " + ln.id
}

func (u *ui) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := geom.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	pressed := ev.Buttons()&tcell.Button1 != 0

	u.mu.Lock()
	pointer := u.pointer
	wasDown := u.mouseDown
	u.mouseDown = pressed
	u.mu.Unlock()

	switch {
	case pressed && !wasDown:
		if target := dom.ElementFromPoint(u.root, p); target != nil {
			pointer.PointerDown(1, pointerdrag.Mouse, target, p)
		}
	case pressed && wasDown:
		pointer.PointerMove(1, p)
	case !pressed && wasDown:
		pointer.PointerUp(1, p)
	}
}

// layout assigns document bounds from the current terminal geometry so
// hit testing sees what the screen shows.
func (u *ui) layout() {
	w, h := u.screen.Size()
	laneW := (w - 3) / len(u.lanes)
	top := 2

	u.root.SetBounds(geom.Rect{W: float64(w), H: float64(h)})
	for i, ln := range u.lanes {
		x := 1 + i*(laneW+1)
		ln.el.SetBounds(geom.Rect{
			X: float64(x), Y: float64(top),
			W: float64(laneW), H: float64(h - top),
		})
		row := top + 1
		for _, it := range ln.ctrl.Model().Items() {
			it.SetBounds(geom.Rect{
				X: float64(x), Y: float64(row),
				W: float64(laneW), H: itemHeight,
			})
			row += itemHeight
		}
	}
}

func (u *ui) render() {
	u.screen.Clear()
	_, h := u.screen.Size()

	title := tcell.StyleDefault.Bold(true)
	u.drawText(1, 0, title, "dragflow demo - drag with the mouse, or arrows/space/enter/escape; tab switches, e exports, q quits")

	u.mu.Lock()
	active := u.active
	events := append([]string(nil), u.events...)
	status := u.status
	opts := u.opts
	u.mu.Unlock()

	for i, ln := range u.lanes {
		b := ln.el.Bounds()
		x, y := int(b.X), int(b.Y)
		head := tcell.StyleDefault.Underline(true)
		if i == active {
			head = head.Bold(true)
		}
		u.drawText(x, y, head, ln.id)

		for _, it := range ln.ctrl.Model().Items() {
			ib := it.Bounds()
			style := tcell.StyleDefault
			switch {
			case it.HasClass(opts.ChosenClass):
				style = style.Reverse(true)
			case it.HasClass(opts.SelectedClass):
				style = style.Foreground(tcell.ColorYellow)
			}
			marker := "  "
			if ln.store.Focused() == it {
				marker = "> "
			}
			u.drawText(int(ib.X), int(ib.Y), style, marker+it.Text())
		}
	}

	logTop := h - len(events) - 2
	if logTop > 2 {
		u.drawText(1, logTop-1, tcell.StyleDefault.Dim(true), "events")
		for i, line := range events {
			u.drawText(1, logTop+i, tcell.StyleDefault.Dim(true), line)
		}
	}
	if status != "" {
		u.drawText(1, h-1, tcell.StyleDefault.Foreground(tcell.ColorGreen), status)
	}

	u.screen.Show()
}

func (u *ui) drawText(x, y int, style tcell.Style, s string) {
	w, h := u.screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (u *ui) setStatus(s string) {
	u.mu.Lock()
	u.status = s
	u.mu.Unlock()
}

// export writes the current list orders as a JSON document.
func (u *ui) export() error {
	doc := `{}`
	doc, _ = sjson.Set(doc, "exportedAt", time.Now().UTC().Format(time.RFC3339))
	for _, ln := range u.lanes {
		ids := make([]string, 0, ln.ctrl.Model().Len())
		for _, it := range ln.ctrl.Model().Items() {
			ids = append(ids, it.ID())
		}
		var err error
		doc, err = sjson.Set(doc, "lists."+ln.id, ids)
		if err != nil {
			return fmt.Errorf("export %s: %w", ln.id, err)
		}
	}
	markup, err := dom.RenderHTMLString(u.root)
	if err != nil {
		return err
	}
	doc, _ = sjson.Set(doc, "html", markup)
	return os.WriteFile(u.exportPath, []byte(doc), 0o644)
}
