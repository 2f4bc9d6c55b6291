package reference

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

type stubExecutor struct {
	mu    sync.Mutex
	calls int
	table *core.Table
	err   error
}

func (s *stubExecutor) Query(_ context.Context, _ string, _ ...any) (*core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func (s *stubExecutor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func day(s string) time.Time {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// measurement builds a record with n samples starting at 400 nm.
func measurement(system string, channel int, date, id string, n int) core.Measurement {
	spec := core.Spectrum{}
	for i := 0; i < n; i++ {
		spec.Wavelengths = append(spec.Wavelengths, 400+float64(i))
		spec.Counts = append(spec.Counts, float64(100*(i+1)))
	}
	return core.Measurement{
		System:      system,
		Channel:     channel,
		Date:        day(date),
		Operator:    "op",
		SpectraUUID: id,
		Spectra:     []core.Spectrum{spec},
	}
}

func uuidFor(i int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", i)
}
