package vocab

// Kind names one of the five induced vocabularies. The values match the
// token categories they feed.
type Kind string

const (
	Equip     Kind = "EQUIP"
	Subcomp   Kind = "SUBCOMP"
	PointFunc Kind = "POINT_FUNC"
	IOType    Kind = "IO_TYPE"
	Vendor    Kind = "VENDOR_TAG"
)

// Kinds lists the vocabularies in classification priority order.
var Kinds = []Kind{IOType, Vendor, PointFunc, Subcomp, Equip}

// Thresholds gate and trim vocabulary candidates.
type Thresholds struct {
	MinFrequency         int64 // occurrences across the corpus
	MinBuildings         int64 // distinct buildings
	MinNumericSuccession int64 // times followed by an all-digit token
	MaxEquipSize         int   // top-K equipment tokens kept
	MinSubcompScore      int64
	MinPointFuncScore    int64
}

// DefaultThresholds returns the thresholds tuned on the reference building corpus.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinFrequency:         10,
		MinBuildings:         2,
		MinNumericSuccession: 5,
		MaxEquipSize:         150,
		MinSubcompScore:      15,
		MinPointFuncScore:    5,
	}
}

// Config is the full, read-only input of a classification run besides the
// corpus statistics. All token lists hold folded (uppercase) strings.
type Config struct {
	Thresholds Thresholds

	SeedEquip     []string
	SeedSubcomp   []string
	SeedPointFunc []string

	IOTypes     []string // closed set
	VendorHints []string

	EquipStopwords []string
	EquipBlacklist []string

	// FunctionStems match a token equal to or starting with the stem.
	FunctionStems []string
	// StateWords are point-function tokens accepted on thresholds alone.
	StateWords []string
	// MeasurementKeywords match a token containing the keyword.
	MeasurementKeywords []string
}

// DefaultConfig returns the seed sets and thresholds used for BMS point names.
func DefaultConfig() Config {
	return Config{
		Thresholds: DefaultThresholds(),
		SeedEquip: []string{
			"AHU", "VAV", "FCU", "CRAC", "MAU", "EF", "SF", "HWP",
			"PUMP", "CHW", "HHW", "HX", "FAN", "FANCOIL",
		},
		SeedSubcomp: []string{
			"SAT", "DAT", "RAT", "MAT", "OAT", "TEMP", "FLOW", "POS",
			"SPEED", "PRESS", "PRESSURE", "STATIC",
		},
		SeedPointFunc: []string{
			"CMD", "COMD", "STATUS", "START", "STOP", "RUN", "ENABLE",
			"ALARM", "ALM", "MODE", "PROOF", "DAY", "NIGHT",
		},
		IOTypes:     []string{"AI", "AO", "DI", "DO", "AV", "BV", "UI", "UO"},
		VendorHints: []string{"JCI", "SIEMENS", "BAC", "BACNET", "HONEYWELL", "TRANE", "N2", "SCHNEIDER"},
		EquipStopwords: []string{
			"AIR", "FLOW", "SUP", "SUPPLY", "RET", "RETURN", "ZONE",
			"HOT", "COLD", "HEAT", "COOL", "TEMP", "MODE", "FILTER",
			"ALARM", "ALM", "RUN", "START", "STOP", "DAY", "NIGHT",
		},
		FunctionStems: []string{
			"CMD", "COMD", "STAT", "STATUS", "START", "STOP", "ENABLE",
			"ENBL", "ALARM", "ALM", "MODE", "PROOF", "RUN",
		},
		StateWords:          []string{"DAY", "NIGHT"},
		MeasurementKeywords: []string{"TEMP", "FLOW", "PRESS", "HUM", "SPEED", "POS", "LEVEL", "STATIC"},
	}
}
