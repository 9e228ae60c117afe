package actuator

import "sync"

// MemoryPin is an in-process output pin used on hosts without GPIO.
type MemoryPin struct {
	mu        sync.Mutex
	number    int
	activeLow bool
	level     bool // physical level
	writes    int
	failWith  error
}

func NewMemoryPin(number int, activeLow bool) *MemoryPin {
	return &MemoryPin{number: number, activeLow: activeLow}
}

// SetLevel records the logical level, inverted when the pin is active-low.
func (p *MemoryPin) SetLevel(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return &HardwareError{Pin: p.number, Op: "set level", Err: p.failWith}
	}
	p.level = level != p.activeLow
	p.writes++
	return nil
}

// GetLevel returns the logical level.
func (p *MemoryPin) GetLevel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level != p.activeLow
}

// PhysicalLevel returns what is actually driven on the pin.
func (p *MemoryPin) PhysicalLevel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Writes counts successful SetLevel calls.
func (p *MemoryPin) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// FailWith makes every subsequent SetLevel fail with err; nil clears it.
func (p *MemoryPin) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}
