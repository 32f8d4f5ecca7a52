// File path: internal/bugs/patterns.go
package bugs

// Pattern is one entry of the static bug taxonomy.
type Pattern struct {
	ID          string
	Label       string
	Keywords    []string
	Description string
	FixHint     string
}

// patternTable is the fixed taxonomy, in the order ties are broken. It is
// built once at init and never mutated.
var patternTable = []Pattern{
	{
		ID:          "fsm_stuck",
		Label:       "FSM Stuck State",
		Keywords:    []string{"state", "fsm", "idle", "stuck", "transition"},
		Description: "Finite state machine is not transitioning between states correctly.",
		FixHint:     "Check state transition conditions and default state assignments.",
	},
	{
		ID:          "arithmetic_overflow",
		Label:       "Arithmetic Overflow/Underflow",
		Keywords:    []string{"overflow", "underflow", "addition", "multiplication", "carry", "count"},
		Description: "An arithmetic operation exceeds the bit-width of the register.",
		FixHint:     "Widen the register or add overflow detection logic.",
	},
	{
		ID:          "off_by_one",
		Label:       "Off-By-One Error",
		Keywords:    []string{"counter", "count", "index", "off", "one", "boundary"},
		Description: "A counter or index is off by one cycle or value.",
		FixHint:     "Check <= vs < comparisons and initial values.",
	},
	{
		ID:          "reset_polarity",
		Label:       "Reset Polarity Mismatch",
		Keywords:    []string{"reset", "rst", "polarity", "active", "high", "low", "negedge", "posedge"},
		Description: "Reset signal polarity does not match the logic (active-high vs active-low).",
		FixHint:     "Invert the reset condition or rename rstn vs rst consistently.",
	},
	{
		ID:          "clock_domain",
		Label:       "Clock Domain / Timing Issue",
		Keywords:    []string{"clock", "clk", "domain", "timing", "setup", "hold", "metastable"},
		Description: "Signal crosses clock domains without proper synchronization.",
		FixHint:     "Add a 2-FF synchronizer on any signal crossing clock domains.",
	},
	{
		ID:          "mux_select",
		Label:       "Mux Select Error",
		Keywords:    []string{"select", "mux", "sel", "case", "condition"},
		Description: "An incorrect mux select signal drives the wrong data path.",
		FixHint:     "Verify select signal encoding matches case statement branches.",
	},
	{
		ID:          "handshake",
		Label:       "Handshake Protocol Violation",
		Keywords:    []string{"valid", "ready", "ack", "req", "handshake", "fifo", "full", "empty"},
		Description: "A valid/ready or request/acknowledge handshake protocol is violated.",
		FixHint:     "Ensure valid is not deasserted before ready is seen.",
	},
	{
		ID:          "width_mismatch",
		Label:       "Width Mismatch",
		Keywords:    []string{"width", "bit", "truncat", "extend", "sign", "port"},
		Description: "Signal width mismatch causes truncation or unintended sign extension.",
		FixHint:     "Explicitly cast or zero-extend signals to match target width.",
	},
	{
		ID:          "xz_propagation",
		Label:       "X/Z Propagation",
		Keywords:    []string{"x", "z", "unknown", "high_impedance", "uninitialized"},
		Description: "Uninitialized or high-impedance values are propagating through the design.",
		FixHint:     "Ensure all registers are reset to a known value in the reset condition.",
	},
	{
		ID:          "stuck_signal",
		Label:       "Stuck Signal",
		Keywords:    []string{"stuck", "never", "change", "constant", "static"},
		Description: "A signal never changes value during simulation.",
		FixHint:     "Verify the signal is being driven and not accidentally disconnected.",
	},
}

var patternsByID = func() map[string]*Pattern {
	m := make(map[string]*Pattern, len(patternTable))
	for i := range patternTable {
		m[patternTable[i].ID] = &patternTable[i]
	}
	return m
}()

// Patterns returns the taxonomy in classification order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternTable))
	copy(out, patternTable)
	return out
}
