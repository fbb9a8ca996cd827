package system

import "math"

const boltzmann = 1.380649e-23 // J/K

// KelvinFromCelsius converts a temperature in degrees Celsius.
func KelvinFromCelsius(c float64) float64 { return c + 273.15 }

// DiffusionCoefficient returns the Stokes-Einstein diffusion coefficient
// in nm^2/ns for a sphere of radius nm in a fluid of viscosity cP.
func DiffusionCoefficient(radius, viscosity, temperature float64) float64 {
	if radius <= 0 || viscosity <= 0 {
		return 0
	}
	d := boltzmann * temperature / (6 * math.Pi * viscosity * 1e-3 * radius * 1e-9) // m^2/s
	return d * 1e9
}

// ParticleCount converts a concentration in uM to a particle count in a
// cubic box of the given edge in nm.
func ParticleCount(concentration, boxSize float64) int {
	return int(math.Round(concentration * 6.022e-7 * boxSize * boxSize * boxSize))
}
