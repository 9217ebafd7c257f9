// Package simulator produces synthetic appointment batches for exercising
// the engine without a scheduling feed. Distributions approximate a typical
// ambulatory clinic week.
package simulator

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/carelane/noshow/core/model"
)

var specialties = []string{
	"Family Medicine",
	"Internal Medicine",
	"Pediatrics",
	"Cardiology",
	"Orthopedics",
	"Dermatology",
	"Neurology",
	"Gastroenterology",
	"Endocrinology",
	"Pulmonology",
	"OB/GYN",
	"Psychiatry",
	"Rheumatology",
	"Urology",
	"Ophthalmology",
}

var durations = []int{15, 20, 30, 45, 60}

var payerMix = []struct {
	payer  model.PayerCategory
	weight float64
}{
	{model.PayerCommercial, 0.45},
	{model.PayerMedicare, 0.25},
	{model.PayerMedicaid, 0.15},
	{model.PayerSelfPay, 0.08},
	{model.PayerOther, 0.07},
}

// Config holds parameters for batch generation.
type Config struct {
	Size          int
	Providers     int
	Days          int
	Seed          int64
	NewPatientPct float64
	VirtualPct    float64
	PortalPct     float64
	HistoryPct    float64
}

// SetDefaults applies the standard clinic mix.
func (c *Config) SetDefaults() {
	if c.Size <= 0 {
		c.Size = 50
	}
	if c.Providers <= 0 {
		c.Providers = 5
	}
	if c.Days <= 0 {
		c.Days = 7
	}
	if c.NewPatientPct == 0 {
		c.NewPatientPct = 0.2
	}
	if c.VirtualPct == 0 {
		c.VirtualPct = 0.15
	}
	if c.PortalPct == 0 {
		c.PortalPct = 0.55
	}
	if c.HistoryPct == 0 {
		c.HistoryPct = 0.7
	}
}

type provider struct {
	id        string
	specialty string
}

// Generate creates a batch of appointments starting the day after start.
// The same seed always yields the same batch.
func Generate(cfg Config, start time.Time) []model.AppointmentContext {
	cfg.SetDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	providers := make([]provider, cfg.Providers)
	for i := range providers {
		providers[i] = provider{
			id:        uuidFrom(rng),
			specialty: specialties[rng.Intn(len(specialties))],
		}
	}

	batch := make([]model.AppointmentContext, cfg.Size)
	for i := range batch {
		p := providers[rng.Intn(len(providers))]
		day := 1 + rng.Intn(cfg.Days)
		hour := 8 + rng.Intn(9) // 08:00 through 16:00 starts
		at := time.Date(start.Year(), start.Month(), start.Day(), hour, 0, 0, 0, start.Location()).
			Add(time.Duration(day) * 24 * time.Hour)

		a := model.AppointmentContext{
			AppointmentID:     uuidFrom(rng),
			PatientID:         uuidFrom(rng),
			ProviderID:        p.id,
			ProviderSpecialty: p.specialty,
			AppointmentTime:   at,
			ScheduledAt:       at.Add(-time.Duration(leadDays(rng)) * 24 * time.Hour),
			DurationMinutes:   durations[rng.Intn(len(durations))],
			IsNewPatient:      rng.Float64() < cfg.NewPatientPct,
			IsVirtual:         rng.Float64() < cfg.VirtualPct,
			PortalEngaged:     rng.Float64() < cfg.PortalPct,
			PayerCategory:     drawPayer(rng),
		}
		if !a.IsNewPatient && rng.Float64() < cfg.HistoryPct {
			rate := clampRate(rng.NormFloat64()*0.12 + 0.15)
			a.HistoricalNoShowRate = &rate
		}
		batch[i] = a
	}
	return batch
}

// leadDays draws from the observed lead-time buckets: most bookings land one
// to four weeks out, with a same-day tail.
func leadDays(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.08:
		return 0
	case r < 0.25:
		return 1 + rng.Intn(3)
	case r < 0.50:
		return 4 + rng.Intn(4)
	case r < 0.75:
		return 8 + rng.Intn(7)
	case r < 0.92:
		return 15 + rng.Intn(16)
	default:
		return 31 + rng.Intn(30)
	}
}

func drawPayer(rng *rand.Rand) model.PayerCategory {
	r := rng.Float64()
	acc := 0.0
	for _, m := range payerMix {
		acc += m.weight
		if r < acc {
			return m.payer
		}
	}
	return model.PayerOther
}

func clampRate(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// uuidFrom derives a deterministic UUID from the seeded source.
func uuidFrom(rng *rand.Rand) string {
	var b [16]byte
	rng.Read(b[:]) //nolint:errcheck // math/rand never fails
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
