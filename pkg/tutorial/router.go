package tutorial

// TabSelector is the part of the view the router drives.
type TabSelector interface {
	SelectedTab() int
	SelectTab(index int)
}

const noTarget = -1

// Router switches the selected tab to follow the walkthrough. It only reads
// the sequencer; selecting a tab by hand never moves the walkthrough.
type Router struct {
	seq         *Sequencer
	tabs        TabSelector
	target      int // last announced target tab, or noTarget
	listeners   []func(tab int)
	unsubscribe func()
}

// NewRouter subscribes to seq and drives tabs on every step change.
func NewRouter(seq *Sequencer, tabs TabSelector) *Router {
	r := &Router{seq: seq, tabs: tabs, target: noTarget}
	r.unsubscribe = seq.Subscribe(func(c Change) {
		r.route(c.To)
	})
	return r
}

// OnTabChange registers fn to run with the new index whenever the active
// step's target tab changes, whether or not the router had to switch tabs.
func (r *Router) OnTabChange(fn func(tab int)) {
	r.listeners = append(r.listeners, fn)
}

// Sync applies the routing rule for the current step once.
func (r *Router) Sync() {
	r.route(r.seq.CurrentStep())
}

// Close stops following the sequencer.
func (r *Router) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

func (r *Router) route(step Step) {
	tab, ok := step.TargetTab()
	if !ok {
		r.target = noTarget
		return
	}
	if r.tabs.SelectedTab() != tab {
		r.tabs.SelectTab(tab)
	}
	if tab == r.target {
		return
	}
	r.target = tab
	for _, fn := range r.listeners {
		fn(tab)
	}
}
