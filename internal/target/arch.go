package target

import (
	"runtime"

	mverrors "github.com/23skdu/multiversion/internal/errors"
)

// Arch is an instruction-set family.
type Arch uint8

const (
	ArchUnknown Arch = iota
	X86
	X86_64
	ARM
	AArch64
	MIPS
	MIPS64
	PowerPC
	PowerPC64
	RISCV64
	S390X
	LoongArch64
	Wasm32
)

var archNames = [...]string{
	ArchUnknown: "unknown",
	X86:         "x86",
	X86_64:      "x86_64",
	ARM:         "arm",
	AArch64:     "aarch64",
	MIPS:        "mips",
	MIPS64:      "mips64",
	PowerPC:     "powerpc",
	PowerPC64:   "powerpc64",
	RISCV64:     "riscv64",
	S390X:       "s390x",
	LoongArch64: "loongarch64",
	Wasm32:      "wasm32",
}

var goarchToArch = map[string]Arch{
	"386":      X86,
	"amd64":    X86_64,
	"arm":      ARM,
	"arm64":    AArch64,
	"mips":     MIPS,
	"mipsle":   MIPS,
	"mips64":   MIPS64,
	"mips64le": MIPS64,
	"ppc64":    PowerPC64,
	"ppc64le":  PowerPC64,
	"riscv64":  RISCV64,
	"s390x":    S390X,
	"loong64":  LoongArch64,
	"wasm":     Wasm32,
}

func (a Arch) String() string {
	if int(a) < len(archNames) {
		return archNames[a]
	}
	return "unknown"
}

// ParseArch resolves an architecture token.
func ParseArch(name string) (Arch, error) {
	for i := X86; int(i) < len(archNames); i++ {
		if archNames[i] == name {
			return i, nil
		}
	}
	return ArchUnknown, mverrors.Newf(mverrors.ErrInvalidArchitecture, "parse_arch", "unknown architecture %q", name)
}

// Arches lists every supported architecture.
func Arches() []Arch {
	out := make([]Arch, 0, len(archNames)-1)
	for i := X86; int(i) < len(archNames); i++ {
		out = append(out, i)
	}
	return out
}

// FromGOARCH maps a GOARCH value onto an Arch; unknown values map to ArchUnknown.
func FromGOARCH(goarch string) Arch {
	return goarchToArch[goarch]
}

// Current is the architecture this binary was compiled for.
func Current() Arch {
	return FromGOARCH(runtime.GOARCH)
}
