package actuator

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"controlling_led/internal/models"
)

func TestNewState_DrivesInitialLevel(t *testing.T) {
	pin := NewMemoryPin(26, false)
	s, err := NewState(pin, models.On)
	require.NoError(t, err)

	assert.Equal(t, models.On, s.GetState())
	assert.True(t, pin.GetLevel())
}

func TestNewState_HardwareFailure(t *testing.T) {
	pin := NewMemoryPin(26, false)
	pin.FailWith(errors.New("bus fault"))

	_, err := NewState(pin, models.Off)
	var hw *HardwareError
	require.ErrorAs(t, err, &hw)
	assert.Equal(t, 26, hw.Pin)
}

func TestSetState_Idempotent(t *testing.T) {
	pin := NewMemoryPin(2, false)
	s, err := NewState(pin, models.Off)
	require.NoError(t, err)

	prev, err := s.SetState(models.On)
	require.NoError(t, err)
	assert.Equal(t, models.Off, prev)
	prev, err = s.SetState(models.On)
	require.NoError(t, err)
	assert.Equal(t, models.On, prev)
	assert.Equal(t, models.On, s.GetState())
	assert.True(t, pin.GetLevel())
}

func TestSetState_FailureKeepsPreviousValue(t *testing.T) {
	pin := NewMemoryPin(2, false)
	s, err := NewState(pin, models.Off)
	require.NoError(t, err)

	pin.FailWith(errors.New("stuck"))
	prev, err := s.SetState(models.On)
	require.Error(t, err)
	assert.Equal(t, models.Off, prev)
	assert.Equal(t, models.Off, s.GetState())

	pin.FailWith(nil)
	_, err = s.SetState(models.On)
	require.NoError(t, err)
	assert.Equal(t, models.On, s.GetState())
}

func TestSetState_RejectsUnknownValue(t *testing.T) {
	pin := NewMemoryPin(2, false)
	s, err := NewState(pin, models.Off)
	require.NoError(t, err)
	writes := pin.Writes()

	_, err = s.SetState(models.OnOff("blink"))
	require.Error(t, err)
	assert.Equal(t, writes, pin.Writes())
}

func TestSetState_ConcurrentCallsSerialize(t *testing.T) {
	pin := NewMemoryPin(2, false)
	s, err := NewState(pin, models.Off)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := models.Off
			if i%2 == 0 {
				state = models.On
			}
			_, _ = s.SetState(state)
			_ = s.GetState()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 101, pin.Writes())
	assert.Equal(t, s.GetState().Level(), pin.GetLevel())
}

func TestSetState_PreviousValuesChainUnderConcurrency(t *testing.T) {
	pin := NewMemoryPin(2, false)
	s, err := NewState(pin, models.Off)
	require.NoError(t, err)

	const n = 200
	type transition struct{ from, to models.OnOff }
	results := make(chan transition, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := models.Off
			if i%2 == 0 {
				to = models.On
			}
			from, err := s.SetState(to)
			if err == nil {
				results <- transition{from, to}
			}
		}(i)
	}
	wg.Wait()
	close(results)

	// Each transition's "from" is some other call's "to" (or the initial
	// value), so counts must balance: every applied "to" except the final
	// one is consumed as exactly one "from".
	counts := map[models.OnOff]int{models.Off: 1}
	for tr := range results {
		counts[tr.to]++
		counts[tr.from]--
	}
	counts[s.GetState()]--
	assert.Equal(t, 0, counts[models.On])
	assert.Equal(t, 0, counts[models.Off])
}

func TestMemoryPin_ActiveLow(t *testing.T) {
	pin := NewMemoryPin(2, true)
	require.NoError(t, pin.SetLevel(true))
	assert.True(t, pin.GetLevel())
	assert.False(t, pin.PhysicalLevel())
}

// failingLine is a gpiotest line whose writes fail once broken is set.
type failingLine struct {
	*gpiotest.Pin
	broken error
}

func (f *failingLine) Out(l gpio.Level) error {
	if f.broken != nil {
		return f.broken
	}
	return f.Pin.Out(l)
}

func TestGPIOPin_SetAndGet(t *testing.T) {
	line := &gpiotest.Pin{N: "GPIO26", Num: 26}

	pin, err := NewGPIOPin(line, 26, false)
	require.NoError(t, err)
	assert.Equal(t, gpio.Low, line.Read(), "line starts low")

	require.NoError(t, pin.SetLevel(true))
	assert.Equal(t, gpio.High, line.Read())
	assert.True(t, pin.GetLevel())

	require.NoError(t, pin.SetLevel(false))
	assert.Equal(t, gpio.Low, line.Read())
	assert.False(t, pin.GetLevel())
}

func TestGPIOPin_ActiveLowInverts(t *testing.T) {
	line := &gpiotest.Pin{N: "GPIO26", Num: 26}

	pin, err := NewGPIOPin(line, 26, true)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, line.Read(), "active-low line starts off")

	require.NoError(t, pin.SetLevel(true))
	assert.Equal(t, gpio.Low, line.Read())
	assert.True(t, pin.GetLevel())
}

func TestGPIOPin_WriteFailureIsHardwareError(t *testing.T) {
	line := &failingLine{Pin: &gpiotest.Pin{N: "GPIO26", Num: 26}}
	pin, err := NewGPIOPin(line, 26, false)
	require.NoError(t, err)

	line.broken = errors.New("line busy")
	err = pin.SetLevel(true)
	var hw *HardwareError
	require.ErrorAs(t, err, &hw)
	assert.Equal(t, 26, hw.Pin)
	assert.Equal(t, "set level", hw.Op)

	s, err := NewState(NewMemoryPin(1, false), models.Off)
	require.NoError(t, err)
	s.pin = pin
	_, err = s.SetState(models.On)
	require.Error(t, err)
	assert.Equal(t, models.Off, s.GetState())
}

func TestNewGPIOPin_DirectionFailure(t *testing.T) {
	line := &failingLine{Pin: &gpiotest.Pin{N: "GPIO5", Num: 5}, broken: errors.New("not exported")}

	_, err := NewGPIOPin(line, 5, false)
	var hw *HardwareError
	require.ErrorAs(t, err, &hw)
	assert.Equal(t, "set direction", hw.Op)
}
