package kinetic2d

// Tuning constants. Names and values are carried over from the teacher's
// collection of global tolerances, just grouped behind a constructor instead
// of package-level constants where a simulation might reasonably want to
// override them.
const (
	maxFloat = 1e38
	epsilon  = 1.1920929e-7

	maxManifoldPoints = 2
	maxPolygonVertices = 16

	aabbExtension  = 0.1
	aabbMultiplier = 2.0

	linearSlop  = 0.005
	angularSlop = 2.0 / 180.0 * 3.14159265358979323846

	polygonRadius = 2.0 * linearSlop

	maxLinearCorrection  = 0.2
	maxAngularCorrection = 8.0 / 180.0 * 3.14159265358979323846

	maxTranslation = 2.0
	maxRotation    = 0.5 * 3.14159265358979323846

	baumgarte = 0.2

	timeToSleep           = 0.5
	linearSleepTolerance  = 0.01
	angularSleepTolerance = 2.0 / 180.0 * 3.14159265358979323846

	velocityThreshold = 1.0
)

// Settings holds every recognized simulation option, mirroring the
// distilled spec's Settings block. World.Step consults these each frame;
// nothing here is read at construction time only. WarmStartingThreshold is
// stored but not read by any solver.
type Settings struct {
	ApplyGravity bool
	Gravity      Vec2

	VelocityIterations int
	PositionIterations int

	WarmStarting          bool
	WarmStartingThreshold float64

	PositionCorrection     bool
	PositionCorrectionBeta float64

	PenetrationSlop float64
	RestitutionSlop float64

	BlockSolve bool

	Sleeping           bool
	SleepLinearTol     float64
	SleepAngularTol    float64
	SleepTimeThreshold float64

	// ValidRegion, when non-zero, destroys bodies whose AABB leaves it.
	// The zero value (Lower == Upper == {0,0}) disables the check.
	ValidRegion AABB
}

// NewSettings returns the teacher's defaults, adapted to this engine's
// naming.
func NewSettings() Settings {
	return Settings{
		ApplyGravity:           true,
		Gravity:                Vec2{0, -10},
		VelocityIterations:     8,
		PositionIterations:     3,
		WarmStarting:           true,
		WarmStartingThreshold:  1e-6,
		PositionCorrection:     true,
		PositionCorrectionBeta: baumgarte,
		PenetrationSlop:        linearSlop,
		RestitutionSlop:        velocityThreshold,
		BlockSolve:             true,
		Sleeping:               true,
		SleepLinearTol:         linearSleepTolerance,
		SleepAngularTol:        angularSleepTolerance,
		SleepTimeThreshold:     timeToSleep,
	}
}
