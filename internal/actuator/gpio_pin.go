package actuator

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOPin drives a board output through periph.io.
type GPIOPin struct {
	pin       gpio.PinIO
	number    int
	activeLow bool
}

// OpenGPIOPin loads the host drivers and claims the line by number.
// The line is driven low (logically off) until the first SetLevel.
func OpenGPIOPin(number int, activeLow bool) (*GPIOPin, error) {
	if _, err := host.Init(); err != nil {
		return nil, &HardwareError{Pin: number, Op: "init host", Err: err}
	}
	p := gpioreg.ByName(strconv.Itoa(number))
	if p == nil {
		return nil, &HardwareError{Pin: number, Op: "lookup", Err: fmt.Errorf("no gpio line %d on this host", number)}
	}
	return NewGPIOPin(p, number, activeLow)
}

// NewGPIOPin wraps an already resolved line and configures it as an output.
func NewGPIOPin(p gpio.PinIO, number int, activeLow bool) (*GPIOPin, error) {
	g := &GPIOPin{pin: p, number: number, activeLow: activeLow}
	if err := p.Out(g.physical(false)); err != nil {
		return nil, &HardwareError{Pin: number, Op: "set direction", Err: err}
	}
	return g, nil
}

func (g *GPIOPin) physical(level bool) gpio.Level {
	return gpio.Level(level != g.activeLow)
}

func (g *GPIOPin) SetLevel(level bool) error {
	if err := g.pin.Out(g.physical(level)); err != nil {
		return &HardwareError{Pin: g.number, Op: "set level", Err: err}
	}
	return nil
}

// GetLevel reads the line back and undoes the active-low inversion.
func (g *GPIOPin) GetLevel() bool {
	return bool(g.pin.Read()) != g.activeLow
}
