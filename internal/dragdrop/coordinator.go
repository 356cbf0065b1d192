// Package dragdrop manages the lifecycle of one in-progress drag gesture,
// including cross-page auto-navigation while hovering over a pagination
// control. The coordinator owns every timer involved; UI code only relays
// hover enter/exit events.
package dragdrop

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"launchgrid/internal/infrastructure/logging"
	"launchgrid/internal/types"
)

// Reorderer commits a move between two global indices
type Reorderer interface {
	Reorder(from, to int) error
}

// Navigator performs one direct page jump. ok=false means the boundary was
// reached and no navigation happened.
type Navigator interface {
	Navigate(direction types.NavDirection) (newPage int, ok bool)
}

// Config holds the drag timing parameters
type Config struct {
	// HoverThreshold is how long the pointer must stay over a pagination
	// control before auto-navigation starts
	HoverThreshold time.Duration
	// ScrollInterval is the delay between repeated page changes while
	// auto-scrolling
	ScrollInterval time.Duration
}

// DefaultConfig returns the stock drag timing
func DefaultConfig() Config {
	return Config{
		HoverThreshold: 600 * time.Millisecond,
		ScrollInterval: 800 * time.Millisecond,
	}
}

// session is the state of one in-flight drag gesture
type session struct {
	id                uuid.UUID
	sourceGlobalIndex int
	originPage        int
	crossPageActive   bool
	hoverStart        time.Time
	hoverDirection    types.NavDirection

	hoverTimer *time.Timer   // pending threshold timer, nil when not hovering
	scrollStop chan struct{} // closes to stop the auto-scroll loop, nil when idle
}

// Coordinator runs the drag state machine: Idle -> Dragging ->
// (AutoScrolling) -> Idle. At most one session exists at a time; every timer
// is cancelled when the session ends, and a stale timer firing afterwards is
// a detectable no-op thanks to the generation counter.
type Coordinator struct {
	mu         sync.Mutex
	cfg        Config
	reorderer  Reorderer
	navigator  Navigator
	logger     logging.Logger
	sess       *session
	generation uint64 // bumped whenever a session starts or ends
}

// NewCoordinator creates an idle coordinator
func NewCoordinator(cfg Config, reorderer Reorderer, navigator Navigator, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if cfg.HoverThreshold <= 0 {
		cfg.HoverThreshold = DefaultConfig().HoverThreshold
	}
	if cfg.ScrollInterval <= 0 {
		cfg.ScrollInterval = DefaultConfig().ScrollInterval
	}
	return &Coordinator{
		cfg:       cfg,
		reorderer: reorderer,
		navigator: navigator,
		logger:    logger,
	}
}

// BeginDrag starts a session for the item at the page-local index. The
// source is resolved to a global index immediately so later page changes
// cannot shift it. An already-active session is cancelled first.
func (c *Coordinator) BeginDrag(localIndex, currentPage, itemsPerPage int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		c.endSessionLocked()
	}

	c.generation++
	c.sess = &session{
		id:                uuid.New(),
		sourceGlobalIndex: currentPage*itemsPerPage + localIndex,
		originPage:        currentPage,
	}

	c.logger.Debug("Drag started",
		"session", c.sess.id,
		"sourceGlobalIndex", c.sess.sourceGlobalIndex,
		"originPage", c.sess.originPage)
}

// ReportHover relays a hover enter/exit over a pagination control during a
// drag. Entering starts the threshold timer when navigation in that
// direction is possible; exiting cancels the pending timer and stops any
// active auto-scroll.
func (c *Coordinator) ReportHover(direction types.NavDirection, entering bool, currentPage, maxPages int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil {
		return
	}

	if !entering {
		c.stopHoverLocked()
		return
	}

	if !canNavigate(direction, currentPage, maxPages) {
		return // at first/last page, nothing to start
	}
	if c.sess.hoverTimer != nil || c.sess.scrollStop != nil {
		return // already pending or scrolling
	}

	c.sess.hoverStart = time.Now()
	c.sess.hoverDirection = direction

	gen := c.generation
	c.sess.hoverTimer = time.AfterFunc(c.cfg.HoverThreshold, func() {
		c.onHoverThreshold(gen)
	})
}

// CompleteDrop resolves the drop target to a global index and commits the
// move. A drop on the source position is a true no-op: no reorder call, no
// record mutation, but the session still clears normally.
func (c *Coordinator) CompleteDrop(targetLocalIndex, currentPage, itemsPerPage int) error {
	c.mu.Lock()

	if c.sess == nil {
		c.mu.Unlock()
		return nil
	}

	source := c.sess.sourceGlobalIndex
	target := currentPage*itemsPerPage + targetLocalIndex
	sessionID := c.sess.id
	c.endSessionLocked()
	c.mu.Unlock()

	if source == target {
		c.logger.Debug("Drop resolved to source position, nothing to do",
			"session", sessionID, "index", source)
		return nil
	}

	c.logger.Debug("Drop committed", "session", sessionID, "from", source, "to", target)
	return c.reorderer.Reorder(source, target)
}

// Cancel discards the session without reordering. Safe to call repeatedly
// and while idle.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil {
		return
	}
	c.logger.Debug("Drag cancelled", "session", c.sess.id)
	c.endSessionLocked()
}

// Dragging reports whether a session is active
func (c *Coordinator) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// onHoverThreshold fires once when the pointer stayed over a control for the
// threshold duration: one immediate page change, then the repeat loop.
func (c *Coordinator) onHoverThreshold(gen uint64) {
	c.mu.Lock()

	if c.generation != gen || c.sess == nil {
		c.mu.Unlock()
		return // stale timer, session already ended
	}
	c.sess.hoverTimer = nil

	direction := c.sess.hoverDirection
	if _, ok := c.navigator.Navigate(direction); !ok {
		c.mu.Unlock()
		return
	}

	c.sess.crossPageActive = true
	stop := make(chan struct{})
	c.sess.scrollStop = stop
	c.mu.Unlock()

	go c.scrollLoop(gen, direction, stop)
}

// scrollLoop repeats page changes at the configured interval until the
// hover ends, the session ends, or the boundary is reached
func (c *Coordinator) scrollLoop(gen uint64, direction types.NavDirection, stop chan struct{}) {
	ticker := time.NewTicker(c.cfg.ScrollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.scrollTick(gen, direction, stop) {
				return
			}
		}
	}
}

// scrollTick performs one auto-scroll page change; false stops the loop.
// The stop channel identity guards against a loop from an earlier hover
// acting on a session that has since re-entered auto-scroll.
func (c *Coordinator) scrollTick(gen uint64, direction types.NavDirection, stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.sess == nil || c.sess.scrollStop != stop {
		return false
	}

	if _, ok := c.navigator.Navigate(direction); !ok {
		// Boundary reached: drop back to plain dragging
		c.sess.scrollStop = nil
		c.sess.crossPageActive = false
		return false
	}
	return true
}

// stopHoverLocked cancels the pending threshold timer and any auto-scroll.
// Callers hold c.mu.
func (c *Coordinator) stopHoverLocked() {
	if c.sess.hoverTimer != nil {
		c.sess.hoverTimer.Stop()
		c.sess.hoverTimer = nil
	}
	if c.sess.scrollStop != nil {
		close(c.sess.scrollStop)
		c.sess.scrollStop = nil
	}
	c.sess.crossPageActive = false
	c.sess.hoverStart = time.Time{}
}

// endSessionLocked tears the session down and invalidates outstanding
// timers. Callers hold c.mu.
func (c *Coordinator) endSessionLocked() {
	c.stopHoverLocked()
	c.sess = nil
	c.generation++
}

// canNavigate reports whether a page change in direction is possible
func canNavigate(direction types.NavDirection, currentPage, maxPages int) bool {
	switch direction {
	case types.NavPrevious:
		return currentPage > 0
	case types.NavNext:
		return currentPage < maxPages-1
	default:
		return false
	}
}
