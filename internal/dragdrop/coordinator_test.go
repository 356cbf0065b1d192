package dragdrop

import (
	"sync"
	"testing"
	"time"

	"launchgrid/internal/testutils"
	"launchgrid/internal/types"
)

// recordingReorderer captures Reorder calls
type recordingReorderer struct {
	mu    sync.Mutex
	calls [][2]int
	err   error
}

func (r *recordingReorderer) Reorder(from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, [2]int{from, to})
	return r.err
}

func (r *recordingReorderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingReorderer) lastCall() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last := r.calls[len(r.calls)-1]
	return last[0], last[1]
}

// pagedNavigator simulates a pager with a fixed page count
type pagedNavigator struct {
	mu        sync.Mutex
	page      int
	pageCount int
	calls     int
}

func (n *pagedNavigator) Navigate(direction types.NavDirection) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++

	next := n.page
	switch direction {
	case types.NavPrevious:
		next--
	case types.NavNext:
		next++
	}
	if next < 0 || next > n.pageCount-1 {
		return n.page, false
	}
	n.page = next
	return next, true
}

func (n *pagedNavigator) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func (n *pagedNavigator) currentPage() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

func newTestCoordinator(reorderer *recordingReorderer, navigator *pagedNavigator) *Coordinator {
	// Short timings keep the auto-scroll tests fast while leaving a wide
	// margin between "before threshold" and "after threshold" assertions
	return NewCoordinator(Config{
		HoverThreshold: 40 * time.Millisecond,
		ScrollInterval: 40 * time.Millisecond,
	}, reorderer, navigator, testutils.NewRecordingLogger())
}

func TestCompleteDrop_ResolvesGlobalIndices(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 5}
	c := newTestCoordinator(reorderer, navigator)

	// Item 2 on page 1 with 10 per page is global index 12
	c.BeginDrag(2, 1, 10)
	if !c.Dragging() {
		t.Fatal("expected an active session")
	}

	// Drop on slot 0 of page 2 is global index 20
	if err := c.CompleteDrop(0, 2, 10); err != nil {
		t.Fatalf("CompleteDrop: %v", err)
	}

	if reorderer.callCount() != 1 {
		t.Fatalf("expected 1 reorder call, got %d", reorderer.callCount())
	}
	if from, to := reorderer.lastCall(); from != 12 || to != 20 {
		t.Errorf("expected reorder 12 -> 20, got %d -> %d", from, to)
	}
	if c.Dragging() {
		t.Error("session must clear after drop")
	}
}

func TestCompleteDrop_SourcePositionIsNoOp(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 3}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(3, 0, 10)
	if err := c.CompleteDrop(3, 0, 10); err != nil {
		t.Fatalf("CompleteDrop: %v", err)
	}

	if reorderer.callCount() != 0 {
		t.Errorf("drop on the source position must not reorder, got %d calls", reorderer.callCount())
	}
	if c.Dragging() {
		t.Error("session must still clear")
	}
}

func TestCompleteDrop_WithoutSessionIsNoOp(t *testing.T) {
	reorderer := &recordingReorderer{}
	c := newTestCoordinator(reorderer, &pagedNavigator{pageCount: 3})

	if err := c.CompleteDrop(0, 0, 10); err != nil {
		t.Fatalf("CompleteDrop without session: %v", err)
	}
	if reorderer.callCount() != 0 {
		t.Error("no session, no reorder")
	}
}

func TestBeginDrag_ReplacesActiveSession(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 3}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.BeginDrag(5, 0, 10) // second drag cancels the first

	if err := c.CompleteDrop(7, 0, 10); err != nil {
		t.Fatalf("CompleteDrop: %v", err)
	}
	if from, to := reorderer.lastCall(); from != 5 || to != 7 {
		t.Errorf("expected second session's source, got %d -> %d", from, to)
	}
}

func TestCancel_DiscardsSessionAndIsIdempotent(t *testing.T) {
	reorderer := &recordingReorderer{}
	c := newTestCoordinator(reorderer, &pagedNavigator{pageCount: 3})

	c.BeginDrag(0, 0, 10)
	c.Cancel()
	if c.Dragging() {
		t.Fatal("session should be gone after cancel")
	}

	c.Cancel() // idle cancel must be safe
	if err := c.CompleteDrop(1, 0, 10); err != nil {
		t.Fatalf("drop after cancel: %v", err)
	}
	if reorderer.callCount() != 0 {
		t.Error("cancelled session must not reorder")
	}
}

func TestReportHover_BelowThresholdDoesNotNavigate(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 5}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 5)
	time.Sleep(10 * time.Millisecond) // well below the 40ms threshold
	c.ReportHover(types.NavNext, false, 0, 5)

	time.Sleep(80 * time.Millisecond) // past where the timer would have fired
	if navigator.callCount() != 0 {
		t.Errorf("expected no navigation, got %d calls", navigator.callCount())
	}
}

func TestReportHover_ThresholdTriggersImmediateNavigation(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 5}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 5)

	time.Sleep(60 * time.Millisecond) // threshold is 40ms
	if navigator.callCount() < 1 {
		t.Error("expected at least the immediate page change after the threshold")
	}
	c.Cancel()
}

func TestReportHover_AutoScrollRepeatsUntilExit(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 10}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 10)

	// threshold (40ms) + a few scroll intervals (40ms each)
	time.Sleep(180 * time.Millisecond)
	c.ReportHover(types.NavNext, false, navigator.currentPage(), 10)

	countAtExit := navigator.callCount()
	if countAtExit < 2 {
		t.Errorf("expected repeated navigation, got %d calls", countAtExit)
	}

	time.Sleep(100 * time.Millisecond)
	if navigator.callCount() != countAtExit {
		t.Errorf("navigation continued after hover exit: %d -> %d", countAtExit, navigator.callCount())
	}
	c.Cancel()
}

func TestReportHover_BoundaryStopsAutoScroll(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 2}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 2)

	// One page change is possible, then the boundary stops the loop
	time.Sleep(200 * time.Millisecond)
	if navigator.currentPage() != 1 {
		t.Errorf("expected to end on the last page, got %d", navigator.currentPage())
	}

	callsAtBoundary := navigator.callCount()
	time.Sleep(100 * time.Millisecond)
	if navigator.callCount() > callsAtBoundary+1 {
		t.Errorf("auto-scroll kept running past the boundary: %d -> %d",
			callsAtBoundary, navigator.callCount())
	}
	c.Cancel()
}

func TestReportHover_AtLastPageNeverStartsTimer(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{page: 2, pageCount: 3}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 2, 10)
	c.ReportHover(types.NavNext, true, 2, 3)

	time.Sleep(80 * time.Millisecond)
	if navigator.callCount() != 0 {
		t.Errorf("hovering next on the last page must do nothing, got %d calls", navigator.callCount())
	}
	c.Cancel()
}

func TestReportHover_AtFirstPagePreviousIsIgnored(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 3}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavPrevious, true, 0, 3)

	time.Sleep(80 * time.Millisecond)
	if navigator.callCount() != 0 {
		t.Errorf("hovering previous on the first page must do nothing, got %d calls", navigator.callCount())
	}
	c.Cancel()
}

func TestReportHover_WithoutSessionIsIgnored(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 5}
	c := newTestCoordinator(reorderer, navigator)

	c.ReportHover(types.NavNext, true, 0, 5)
	time.Sleep(80 * time.Millisecond)
	if navigator.callCount() != 0 {
		t.Error("hover without a drag session must be ignored")
	}
}

func TestCancel_StopsPendingHoverTimer(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 5}
	c := newTestCoordinator(reorderer, navigator)

	c.BeginDrag(0, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 5)
	c.Cancel() // before the threshold fires

	time.Sleep(80 * time.Millisecond)
	if navigator.callCount() != 0 {
		t.Errorf("stale hover timer navigated after cancel: %d calls", navigator.callCount())
	}
}

func TestDropDuringAutoScroll_UsesOriginalSource(t *testing.T) {
	reorderer := &recordingReorderer{}
	navigator := &pagedNavigator{pageCount: 10}
	c := newTestCoordinator(reorderer, navigator)

	// Item 4 on page 0 is global index 4; the source must not shift when
	// auto-scroll changes the visible page
	c.BeginDrag(4, 0, 10)
	c.ReportHover(types.NavNext, true, 0, 10)
	time.Sleep(100 * time.Millisecond)
	c.ReportHover(types.NavNext, false, navigator.currentPage(), 10)

	page := navigator.currentPage()
	if page < 1 {
		t.Fatalf("expected auto-scroll to advance past page 0, on page %d", page)
	}

	if err := c.CompleteDrop(2, page, 10); err != nil {
		t.Fatalf("CompleteDrop: %v", err)
	}
	if from, to := reorderer.lastCall(); from != 4 || to != page*10+2 {
		t.Errorf("expected reorder 4 -> %d, got %d -> %d", page*10+2, from, to)
	}
}

func TestDefaultConfigApplied(t *testing.T) {
	c := NewCoordinator(Config{}, &recordingReorderer{}, &pagedNavigator{pageCount: 2}, nil)
	if c.cfg.HoverThreshold != DefaultConfig().HoverThreshold {
		t.Errorf("zero threshold not defaulted: %v", c.cfg.HoverThreshold)
	}
	if c.cfg.ScrollInterval != DefaultConfig().ScrollInterval {
		t.Errorf("zero interval not defaulted: %v", c.cfg.ScrollInterval)
	}
}
