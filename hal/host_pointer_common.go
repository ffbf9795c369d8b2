//go:build !tinygo

package hal

type hostPointer struct {
	ch chan PointerEvent

	lastX, lastY int
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 256), lastX: -1, lastY: -1}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// emit drops the event when the queue is full.
func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}
