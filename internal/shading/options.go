package shading

import "fmt"

// NormalMode selects what the fragment stage does with the interpolated normal.
type NormalMode int

const (
	// NormalAsIs uses the interpolated normal untouched, matching the GPU shader bit for bit.
	NormalAsIs NormalMode = iota
	// NormalRenormalize rescales the interpolated normal to unit length before lighting.
	NormalRenormalize
)

func (m NormalMode) String() string {
	switch m {
	case NormalAsIs:
		return "as-is"
	case NormalRenormalize:
		return "renormalize"
	default:
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
}

func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "", "as-is":
		return NormalAsIs, nil
	case "renormalize":
		return NormalRenormalize, nil
	}
	return NormalAsIs, fmt.Errorf("unknown normal mode %q", s)
}

func (m NormalMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *NormalMode) UnmarshalText(text []byte) error {
	parsed, err := ParseNormalMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Options tune the fragment stage. The zero value reproduces the GPU shader.
type Options struct {
	NormalMode NormalMode
	// GuardDegenerateNormal makes a zero-length or non-finite normal shade
	// as ambient only instead of letting NaN reach the framebuffer.
	GuardDegenerateNormal bool
}
