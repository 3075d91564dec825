package consts

// Working unit system: time ms, voltage mV, current density mA/cm2,
// length um, area um2, capacitance F/m2, axial resistivity Ohm*cm,
// injected current nA, concentration mM.

const (
	FARADAY = 96485.3365 // Faraday constant (C/mol)
	GAS     = 8.3144621  // Molar gas constant (J/K/mol)
	KELVIN  = 273.15     // Kelvin offset (K)
)

// Membrane defaults.
const (
	Vrest = -65.0 // resting potential (mV)
	Cm    = 0.01  // specific membrane capacitance (F/m2), 1 uF/cm2
	RL    = 180.0 // axial resistivity (Ohm*cm)
)

// Unit-scaling factors derived from the working unit system. They are
// algebraic consequences of the chosen units, not tunable parameters.
const (
	// AxialCoeffScale puts dt*face_alpha, with face areas in um2,
	// compartment lengths in um, c_m in F/m2 and r_L in Ohm*cm, onto the
	// um2 scale of the matrix diagonal:
	//   1e5 = 1e12(um2/m2) * 1e-3(s/ms) / (1e-2(Ohm*m/Ohm*cm) * 1e-6(m/um) * 1e12(um2/m2))
	AxialCoeffScale = 1e5

	// MembraneCurrentScale converts dt*i/c_m, with dt in ms, i in mA/cm2
	// and c_m in F/m2, to a potential step in mV:
	//   10 = 1e-3(s/ms) * 1e-3(A/mA) * 1e4(cm2/m2) * 1e3(mV/V)
	MembraneCurrentScale = 10.0

	// InjectedCurrentScale converts an injected current in nA spread over a
	// CV surface in um2 to a membrane current density in mA/cm2:
	//   100 = 1e-9(A/nA) / (1e-8(cm2/um2) * 1e-3(A/mA))
	InjectedCurrentScale = 100.0
)
