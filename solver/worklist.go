package solver

import "github.com/taie-go/taie/cfg"

// worklist is a FIFO queue with a set-backed "in-queue" check, per §5's
// recommendation: "A FIFO queue with a set-backed in-queue check is
// recommended to avoid unbounded duplicates."
type worklist struct {
	queue []cfg.Node
	queued map[cfg.Node]bool
}

func newWorklist() *worklist {
	return &worklist{queued: make(map[cfg.Node]bool)}
}

func (w *worklist) push(n cfg.Node) {
	if w.queued[n] {
		return
	}
	w.queued[n] = true
	w.queue = append(w.queue, n)
}

func (w *worklist) pop() cfg.Node {
	n := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.queued, n)
	return n
}

func (w *worklist) empty() bool { return len(w.queue) == 0 }
