package seed

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// GenerateOptions controls synthetic fixture generation.
type GenerateOptions struct {
	Systems  []string
	Channels []int
	// PerChannel is the number of measurements per system and channel.
	PerChannel int
	Day        time.Time
	// Days spreads the measurements over this many days ending at Day.
	Days     int
	Operator string
	// Seed makes the output reproducible.
	Seed int64
}

// Wavelength grid of generated spectra, in nanometres.
const (
	minWavelength  = 400.0
	maxWavelength  = 700.0
	wavelengthStep = 5.0
)

// Generate synthesizes reference measurements with a single Gaussian peak per spectrum.
func Generate(opts GenerateOptions) []core.Measurement {
	channels := opts.Channels
	if len(channels) == 0 {
		channels = core.Channels
	}
	operator := opts.Operator
	if operator == "" {
		operator = "refdash"
	}
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // synthetic data
	day := core.TruncateDay(opts.Day)
	days := max(opts.Days, 1)

	var out []core.Measurement
	for _, system := range opts.Systems {
		for _, ch := range channels {
			for i := 0; i < opts.PerChannel; i++ {
				date := day.AddDate(0, 0, -(i % days))
				id, err := uuid.NewRandomFromReader(rng)
				if err != nil {
					id = uuid.New()
				}
				out = append(out, core.Measurement{
					System:                  system,
					Channel:                 ch,
					Date:                    date,
					Operator:                operator,
					SpectrometerIntegration: float64(50 + 10*rng.Intn(10)),
					SpectrometerAveraging:   float64(1 + rng.Intn(10)),
					SpectraUUID:             id.String(),
					Spectra:                 []core.Spectrum{spectrum(rng)},
				})
			}
		}
	}
	return out
}

func spectrum(rng *rand.Rand) core.Spectrum {
	center := 500 + rng.Float64()*100
	width := 20 + rng.Float64()*30
	peak := 20000 + rng.Float64()*40000
	baseline := 500 + rng.Float64()*200

	n := int((maxWavelength-minWavelength)/wavelengthStep) + 1
	s := core.Spectrum{
		Wavelengths: make([]float64, n),
		Counts:      make([]float64, n),
	}
	for i := 0; i < n; i++ {
		wl := minWavelength + float64(i)*wavelengthStep
		d := (wl - center) / width
		counts := baseline + peak*math.Exp(-d*d/2) + rng.NormFloat64()*50
		s.Wavelengths[i] = wl
		s.Counts[i] = math.Round(counts)
	}
	return s
}
