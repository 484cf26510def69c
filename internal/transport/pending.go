package transport

import "sync"

type result struct {
	env *Envelope
	err error
}

// pending tracks calls waiting for an answer. resolve removes the entry it
// settles, so a name can be settled at most once.
type pending struct {
	mu    sync.Mutex
	calls map[string]chan result
}

func newPending() *pending {
	return &pending{calls: make(map[string]chan result)}
}

func (p *pending) register(name string) <-chan result {
	ch := make(chan result, 1)
	p.mu.Lock()
	p.calls[name] = ch
	p.mu.Unlock()
	return ch
}

func (p *pending) resolve(name string, r result) bool {
	p.mu.Lock()
	ch, ok := p.calls[name]
	if ok {
		delete(p.calls, name)
	}
	p.mu.Unlock()

	if !ok {
		return false
	}
	ch <- r
	return true
}

func (p *pending) remove(name string) {
	p.mu.Lock()
	delete(p.calls, name)
	p.mu.Unlock()
}

func (p *pending) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
