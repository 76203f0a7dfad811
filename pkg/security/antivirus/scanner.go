package antivirus

import (
	"context"
	"errors"
)

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string
	Error       error
}

// Scanner checks uploaded content before it is written to disk.
// Implementations fail closed: an error means Infected is true.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Available(ctx context.Context) bool
}

var ErrNoScanner = errors.New("no antivirus scanner available")

// NoOpScanner reports everything clean. Used when no clamd address is configured.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}

func (n *NoOpScanner) Scan(_ context.Context, _ string, _ []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}

func (n *NoOpScanner) Available(context.Context) bool {
	return true
}

// New returns a ClamAV scanner for address, or a no-op scanner when address is empty.
func New(address string) Scanner {
	if address == "" {
		return NewNoOpScanner()
	}
	return NewClamAVScanner(address, 0)
}
