//go:build !linux

package mpris

// Bridge is a placeholder on platforms without MPRIS.
type Bridge struct{}

// New always fails with ErrUnsupported.
func New(Handler) (*Bridge, error) {
	return nil, ErrUnsupported
}

func (*Bridge) Update(State) error { return nil }

func (*Bridge) Close() error { return nil }
