package logic

// Sounder is the acoustic output: a steady line and a tone generator that
// share one transducer. Implementations must not assume callers interleave
// the two; the Buzzer arbiter guarantees they are never both asserted.
type Sounder interface {
	// SetSteady drives the steady output high or low.
	SetSteady(high bool) error
	// Tone emits a square wave at hz until Silence is called.
	Tone(hz int) error
	// Silence stops the tone generator.
	Silence() error
}

// Screen is the two-line text output.
type Screen interface {
	// Show replaces both lines. Lines are already fitted to DisplayWidth.
	Show(line1, line2 string) error
}
