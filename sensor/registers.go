package sensor

// MAX30102 register map (datasheet rev. 1, table 1). Only the registers the
// sample path touches are listed.
const (
	regIntStat1  = 0x00
	regIntEna1   = 0x02
	regFIFOWrPtr = 0x04
	regOvfCount  = 0x05
	regFIFORdPtr = 0x06
	regFIFOData  = 0x07
	regFIFOCfg   = 0x08
	regModeCfg   = 0x09
	regSpO2Cfg   = 0x0A
	regLed1PA    = 0x0C
	regLed2PA    = 0x0D
	regRevID     = 0xFE
	regPartID    = 0xFF
)

// Interrupt status/enable bits.
const (
	intAlmostFull  byte = 1 << 7
	intNewFIFOData byte = 1 << 6
)

const (
	// DefaultAddr is the factory I2C address of the MAX30102.
	DefaultAddr = 0x57

	partID = 0x15

	maxADC = 262143 // 18-bit ADC full scale
)

// Mode configuration.
const (
	modeSpO2  byte = 0b011
	modeMask  byte = 0b1111_1000
	modeReset byte = 0b0100_0000
	modeSHDN  byte = 0b1000_0000
)

// SpO2 configuration fields (sample rate in bits 4:2, pulse width in 1:0).
const (
	sr100 byte = 1 << 2
	pw411 byte = 0b11

	srMask byte = 0b1_11_000_11
	pwMask byte = 0b1_11_111_00
)

const fifoFullMask byte = 0b0000_1111
