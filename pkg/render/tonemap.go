package render

// ToneMapping selects how linear radiance is compressed to display range.
type ToneMapping int

const (
	ToneMappingNone ToneMapping = iota // clamp only
	ToneMappingACES                    // ACES filmic fit
)

// Display converts linear radiance to an opaque sRGB color.
func (tm ToneMapping) Display(c Linear, exposure float64) Color {
	c = c.Scale(exposure)
	if tm == ToneMappingACES {
		c = acesFilmic(c)
	}
	return RGB(to8(LinearToSRGB(c.R)), to8(LinearToSRGB(c.G)), to8(LinearToSRGB(c.B)))
}

// acesFilmic is the Stephen Hill fit of the ACES RRT+ODT, including the
// sRGB to ACEScg input and output transforms.
func acesFilmic(c Linear) Linear {
	c = c.Scale(1 / 0.6)

	in := Linear{
		0.59719*c.R + 0.35458*c.G + 0.04823*c.B,
		0.07600*c.R + 0.90834*c.G + 0.01566*c.B,
		0.02840*c.R + 0.13383*c.G + 0.83777*c.B,
	}
	in = Linear{rrtAndODTFit(in.R), rrtAndODTFit(in.G), rrtAndODTFit(in.B)}

	return Linear{
		clamp01(1.60475*in.R - 0.53108*in.G - 0.07367*in.B),
		clamp01(-0.10208*in.R + 1.10813*in.G - 0.00605*in.B),
		clamp01(-0.00327*in.R - 0.07276*in.G + 1.07602*in.B),
	}
}

func rrtAndODTFit(v float64) float64 {
	a := v*(v+0.0245786) - 0.000090537
	b := v*(0.983729*v+0.4329510) + 0.238081
	return a / b
}
