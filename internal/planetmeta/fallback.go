package planetmeta

// Bundled physical data, mass and radius in Jupiter units. Served when the
// remote API and the cache both come up empty, so every body always has an
// answer. Temperatures are mean values in kelvin.
var fallbackTable = map[string]PlanetInfo{
	"sun": {
		Name:         "Sun",
		MassJupiters: 1047.9,
		// 695700 km
		RadiusJupiters: 9.951,
		TemperatureK:   5778,
		GravityMS2:     274.0,
	},
	"mercury": {
		Name:            "Mercury",
		MassJupiters:    0.000174,
		RadiusJupiters:  0.0349,
		PeriodDays:      88.0,
		SemiMajorAxisAU: 0.387,
		TemperatureK:    440,
		GravityMS2:      3.7,
	},
	"venus": {
		Name:            "Venus",
		MassJupiters:    0.002564,
		RadiusJupiters:  0.0866,
		PeriodDays:      224.7,
		SemiMajorAxisAU: 0.723,
		TemperatureK:    737,
		GravityMS2:      8.87,
	},
	"earth": {
		Name:            "Earth",
		MassJupiters:    0.003146,
		RadiusJupiters:  0.0911,
		PeriodDays:      365.25,
		SemiMajorAxisAU: 1.0,
		TemperatureK:    288,
		GravityMS2:      9.81,
	},
	"mars": {
		Name:            "Mars",
		MassJupiters:    0.000338,
		RadiusJupiters:  0.0485,
		PeriodDays:      687.0,
		SemiMajorAxisAU: 1.524,
		TemperatureK:    210,
		GravityMS2:      3.71,
	},
	"jupiter": {
		Name:            "Jupiter",
		MassJupiters:    1.0,
		RadiusJupiters:  1.0,
		PeriodDays:      4331,
		SemiMajorAxisAU: 5.203,
		TemperatureK:    165,
		GravityMS2:      24.79,
	},
	"saturn": {
		Name:            "Saturn",
		MassJupiters:    0.2994,
		RadiusJupiters:  0.833,
		PeriodDays:      10747,
		SemiMajorAxisAU: 9.537,
		TemperatureK:    134,
		GravityMS2:      10.44,
	},
	"uranus": {
		Name:            "Uranus",
		MassJupiters:    0.0457,
		RadiusJupiters:  0.363,
		PeriodDays:      30589,
		SemiMajorAxisAU: 19.19,
		TemperatureK:    76,
		GravityMS2:      8.87,
	},
	"neptune": {
		Name:            "Neptune",
		MassJupiters:    0.0540,
		RadiusJupiters:  0.352,
		PeriodDays:      59800,
		SemiMajorAxisAU: 30.07,
		TemperatureK:    72,
		GravityMS2:      11.15,
	},
	"moon": {
		Name:           "Moon",
		MassJupiters:   0.0000387,
		RadiusJupiters: 0.0249,
		// sidereal month; semi-major axis is geocentric
		PeriodDays:      27.32,
		SemiMajorAxisAU: 0.00257,
		TemperatureK:    250,
		GravityMS2:      1.62,
	},
}

// Fallback returns the bundled record for a body name, ok=false for names
// outside the supported set.
func Fallback(name string) (PlanetInfo, bool) {
	info, ok := fallbackTable[normalizeName(name)]
	return info, ok
}
