package httpclient

import "sync"

// delivery holds a completion that may be consumed exactly once, either by
// delivering a result or by being disarmed.
type delivery struct {
	mu         sync.Mutex
	completion Completion
}

func newDelivery(completion Completion) *delivery {
	return &delivery{completion: completion}
}

// take returns the armed completion and disarms the slot
func (d *delivery) take() Completion {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.completion
	d.completion = nil
	return c
}

func (d *delivery) deliver(resp *Response, err error) {
	if c := d.take(); c != nil {
		c(resp, err)
	}
}

func (d *delivery) disarm() {
	d.take()
}
