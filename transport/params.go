package transport

import (
	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/stubs"
)

// ToParam converts run parameters to their wire form. Threads, snapshots and
// the logger stay behind: the broker decides the rank count from its worker list.
func ToParam(p relax.Params) stubs.Param {
	return stubs.Param{
		Size:      p.Size,
		Precision: p.Precision,
		Boundary:  p.Boundary.String(),
		Fill:      p.Fill.String(),
		Seed:      p.Seed,
	}
}

// FromParam rebuilds run parameters on the broker.
func FromParam(sp stubs.Param, ranks int, log *logging.Logger) (relax.Params, error) {
	boundary, err := relax.ParseBoundary(sp.Boundary)
	if err != nil {
		return relax.Params{}, err
	}
	fill, err := relax.ParseFill(sp.Fill)
	if err != nil {
		return relax.Params{}, err
	}
	p := relax.Params{
		Size:      sp.Size,
		Precision: sp.Precision,
		Threads:   ranks,
		Boundary:  boundary,
		Fill:      fill,
		Seed:      sp.Seed,
		Log:       log,
	}
	return p, p.Validate()
}
