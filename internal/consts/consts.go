package consts

const (
	MMHG      = 1333.22 // mmHg to barye (dyn/cm2)
	DENSITY   = 1.06    // Blood density (g/cm3)
	VISCOSITY = 0.04    // Blood dynamic viscosity (poise)
)
