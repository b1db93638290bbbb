package sim

// ClockConfig groups time-advancement parameters.
type ClockConfig struct {
	MinutesPerTick    int // simulated minutes advanced per Tick (must be > 0)
	BusinessStartHour int // first bookable hour of a business day
	BusinessEndHour   int // first hour past the business day
}

// EnergyConfig groups recovery parameters. Rates are integer milli-energy
// per simulated minute so that remainder-carry accounting stays exact.
type EnergyConfig struct {
	IdleRateMilli      int // recovery while idle
	BreakRateMilli     int // recovery while on a scheduled break
	TrainingRateMilli  int // recovery while in training
	OvernightHours     int // hours-equivalent of idle recovery applied at day end
	BurnoutDays        int // day boundaries a burned-out therapist needs to recover
	SessionCostPerHour int // energy drained per session hour
	BurnoutThreshold   int // energy at or below which a therapist burns out
}

// BookingConfig groups booking validation parameters.
type BookingConfig struct {
	TelehealthUnlocked bool
	DefaultDuration    int // minutes, used when a request leaves Duration zero
}

// SuggestionConfig groups the advisory scorer's weights and caps.
type SuggestionConfig struct {
	DaysAhead       int
	MaxSuggestions  int
	DueSoonWindow   int // days before the cadence due date counted as due_soon
	TimeOfDayWeight float64
	ModalityWeight  float64
	CertWeight      float64
	UrgencyWeight   float64
	HeadroomWeight  float64
	ExcellentCutoff float64
	GoodCutoff      float64
}

// EconomyConfig groups payment and satisfaction parameters.
type EconomyConfig struct {
	PrivateRate        string  // decimal string, private-pay rate per session
	PanelRate          string  // decimal string, insurance panel rate per session
	VirtualDiscount    string  // decimal string multiplier applied to virtual sessions
	QualityBonusWeight string  // decimal string, payment bonus per quality point above 0.5
	BaseSessionXP      int     // XP at quality 0.5
	SatisfactionScale  float64 // satisfaction points per quality point from 0.5
	ModalityBonus      float64 // satisfaction bonus when modality preference is met
}

// SpawnConfig groups new-client arrival parameters.
type SpawnConfig struct {
	BaseChance       float64 // probability on day 1 at reputation 0
	DayRamp          float64 // probability added per elapsed day
	ReputationWeight float64 // probability added per reputation point
	MaxChance        float64
	MaxWaitDays      int     // days a client waits before dropping
	WaitDecay        float64 // satisfaction lost per waiting day
}

// TrainingConfig groups daily training progression parameters.
type TrainingConfig struct {
	DailyHours int // hours every active training advances per day
}

// Config is the full engine configuration.
type Config struct {
	Clock      ClockConfig
	Energy     EnergyConfig
	Booking    BookingConfig
	Suggestion SuggestionConfig
	Economy    EconomyConfig
	Spawn      SpawnConfig
	Training   TrainingConfig
}

// DefaultConfig returns the engine defaults; scenario files override
// individual fields.
func DefaultConfig() Config {
	return Config{
		Clock: ClockConfig{
			MinutesPerTick:    1,
			BusinessStartHour: 8,
			BusinessEndHour:   18,
		},
		Energy: EnergyConfig{
			IdleRateMilli:      100, // 6 energy per idle hour
			BreakRateMilli:     250,
			TrainingRateMilli:  50,
			OvernightHours:     8,
			BurnoutDays:        3,
			SessionCostPerHour: 15,
			BurnoutThreshold:   10,
		},
		Booking: BookingConfig{
			TelehealthUnlocked: false,
			DefaultDuration:    60,
		},
		Suggestion: SuggestionConfig{
			DaysAhead:       7,
			MaxSuggestions:  10,
			DueSoonWindow:   2,
			TimeOfDayWeight: 0.25,
			ModalityWeight:  0.20,
			CertWeight:      0.30,
			UrgencyWeight:   0.15,
			HeadroomWeight:  0.10,
			ExcellentCutoff: 0.80,
			GoodCutoff:      0.55,
		},
		Economy: EconomyConfig{
			PrivateRate:        "120.00",
			PanelRate:          "85.00",
			VirtualDiscount:    "0.90",
			QualityBonusWeight: "0.40",
			BaseSessionXP:      20,
			SatisfactionScale:  20,
			ModalityBonus:      2.5,
		},
		Spawn: SpawnConfig{
			BaseChance:       0.30,
			DayRamp:          0.005,
			ReputationWeight: 0.002,
			MaxChance:        0.90,
			MaxWaitDays:      14,
			WaitDecay:        3.0,
		},
		Training: TrainingConfig{
			DailyHours: 2,
		},
	}
}
