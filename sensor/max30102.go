// Package sensor reads a MAX30102 pulse oximeter over I2C and adapts its
// red-LED channel into the frame shape the pulsecam Monitor consumes, so a
// contact sensor can drive the same pipeline as a phone camera.
package sensor

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// ErrNotMAX30102 is returned when the part ID at the given address does not
// match the MAX30102 signature (0x15).
var ErrNotMAX30102 = errors.New("sensor: part ID does not match MAX30102 (0x15)")

// MAX30102 is a register-level handle to the sensor, configured for SpO2
// mode at 100 samples/s with 411us pulses.
type MAX30102 struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// Open initializes the I2C host, opens busName ("" selects the first
// available bus) and probes addr (0 selects the factory default 0x57). The
// device is reset and its LEDs ramped until the red channel reads a usable
// level.
func Open(busName string, addr uint16) (*MAX30102, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("sensor: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("sensor: could not open I2C bus: %w", err)
	}

	if addr == 0 {
		addr = DefaultAddr
	}

	d := &MAX30102{
		dev: &i2c.Dev{Addr: addr, Bus: bus},
		bus: bus,
	}

	part, err := d.read(regPartID)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("sensor: could not get part ID: %w", err)
	}
	if part != partID {
		bus.Close()
		return nil, ErrNotMAX30102
	}

	if err := d.Reset(); err != nil {
		bus.Close()
		return nil, err
	}
	if err := d.configure(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("sensor: could not configure device: %w", err)
	}
	if _, err := d.Calibrate(); err != nil {
		bus.Close()
		return nil, err
	}

	return d, nil
}

func (d *MAX30102) configure() error {
	steps := []struct {
		reg, mask, flag byte
	}{
		{regModeCfg, modeMask, modeSpO2},
		{regSpO2Cfg, srMask, sr100},
		{regSpO2Cfg, pwMask, pw411},
		{regIntEna1, ^(intNewFIFOData | intAlmostFull), intNewFIFOData | intAlmostFull},
		{regFIFOCfg, fifoFullMask, 0},
	}
	for _, s := range steps {
		if err := d.config(s.reg, s.mask, s.flag); err != nil {
			return err
		}
	}

	// Clear FIFO pointers so sampling starts from a known state.
	for _, reg := range []byte{regFIFOWrPtr, regOvfCount, regFIFORdPtr} {
		if err := d.write(reg, 0); err != nil {
			return err
		}
	}

	return d.drain()
}

// Close shuts the sensor down and releases the bus.
func (d *MAX30102) Close() error {
	d.Shutdown()
	return d.bus.Close()
}

// RevID returns the silicon revision.
func (d *MAX30102) RevID() (byte, error) {
	rev, err := d.read(regRevID)
	if err != nil {
		return 0, fmt.Errorf("sensor: could not get revision ID: %w", err)
	}
	return rev, nil
}

// Reset restores the power-on register state and waits for completion.
func (d *MAX30102) Reset() error {
	if err := d.write(regModeCfg, modeReset); err != nil {
		return fmt.Errorf("sensor: could not reset: %w", err)
	}
	for {
		state, err := d.read(regModeCfg)
		if err != nil {
			return fmt.Errorf("sensor: could not reset: %w", err)
		}
		if state&modeReset == 0 {
			return nil
		}
	}
}

// Shutdown puts the sensor in power-save mode.
func (d *MAX30102) Shutdown() error {
	return d.config(regModeCfg, ^modeSHDN, modeSHDN)
}

// Startup wakes the sensor from power-save mode.
func (d *MAX30102) Startup() error {
	return d.config(regModeCfg, ^modeSHDN, 0)
}

// Sample blocks until the FIFO has a new entry and returns the red and IR
// levels normalized to 0..1.
func (d *MAX30102) Sample() (red, ir float64, err error) {
	for {
		state, err := d.read(regIntStat1)
		if err != nil {
			return 0, 0, fmt.Errorf("sensor: could not poll FIFO: %w", err)
		}
		if state&intNewFIFOData != 0 {
			break
		}
	}

	b, err := d.readBytes(regFIFOData, 6)
	if err != nil {
		return 0, 0, fmt.Errorf("sensor: could not read FIFO: %w", err)
	}

	const msbMask byte = 0b0000_0011
	red = float64(int(b[0]&msbMask)<<16|int(b[1])<<8|int(b[2])) / maxADC
	ir = float64(int(b[3]&msbMask)<<16|int(b[4])<<8|int(b[5])) / maxADC

	return red, ir, nil
}

// Calibrate ramps the red LED current until the channel reads at least 0.4
// of full scale, and returns the chosen current in mA. Capped at 5mA to stay
// skin-safe.
func (d *MAX30102) Calibrate() (redAmp float64, err error) {
	for {
		level, err := d.redLevel()
		if err != nil {
			return 0, fmt.Errorf("sensor: could not calibrate: %w", err)
		}
		if level >= 0.4 || redAmp >= 5 {
			return redAmp, nil
		}

		redAmp += 0.5
		// LED current registers are 0.2mA per LSB.
		if err := d.write(regLed1PA, byte(redAmp*5)); err != nil {
			return 0, fmt.Errorf("sensor: could not calibrate: %w", err)
		}
		if err := d.write(regLed2PA, byte(redAmp*5)); err != nil {
			return 0, fmt.Errorf("sensor: could not calibrate: %w", err)
		}
		time.Sleep(40 * time.Millisecond)
	}
}

func (d *MAX30102) redLevel() (float64, error) {
	const samples = 8

	sum := 0.0
	for i := 0; i < samples; i++ {
		red, _, err := d.Sample()
		if err != nil {
			return 0, err
		}
		sum += red
	}

	return sum / samples, nil
}

func (d *MAX30102) drain() error {
	n, err := d.available()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := d.readBytes(regFIFOData, 6); err != nil {
			return err
		}
	}
	return nil
}

func (d *MAX30102) available() (int, error) {
	wr, err := d.read(regFIFOWrPtr)
	if err != nil {
		return 0, err
	}
	rd, err := d.read(regFIFORdPtr)
	if err != nil {
		return 0, err
	}

	if wr == rd {
		return 32, nil
	}
	return (int(wr) + 32 - int(rd)) % 32, nil
}

// config rewrites the masked bits of a register.
func (d *MAX30102) config(reg, mask, flag byte) error {
	cfg, err := d.read(reg)
	if err != nil {
		return fmt.Errorf("sensor: could not read %#x: %w", reg, err)
	}
	cfg &= mask
	cfg |= flag
	if err := d.write(reg, cfg); err != nil {
		return fmt.Errorf("sensor: could not set %#x in %#x: %w", flag, reg, err)
	}

	return nil
}

func (d *MAX30102) read(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *MAX30102) readBytes(reg byte, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *MAX30102) write(reg, data byte) error {
	_, err := d.dev.Write([]byte{reg, data})
	return err
}
