//go:build arm64

package archspill

// NumSpillSlots is the number of callee-saved general-purpose registers
// spilled on this architecture: R19-R27 and R28, which Go's arm64 ABI
// reserves as the goroutine pointer and the assembler only accepts under
// the name g.
const NumSpillSlots = 10

// Registers holds one spilled register file.
type Registers [NumSpillSlots]uintptr

//go:noescape
func spillRegisters(buf *Registers)

func releaseRegisters() {}
