package stubs

var RelaxHandler = "RelaxOperations.Relax"
var FinishHandler = "RelaxOperations.Finish"
var RunHandler = "BrokerOperations.Run"
var ProgressHandler = "BrokerOperations.Progress"

// Param is the wire form of relax.Params. Conventions travel by name.
type Param struct {
	Size      int
	Precision float64
	Boundary  string
	Fill      string
	Seed      int64
}

// RelaxRequest is one rank's working set: interior rows plus a halo row on each side.
type RelaxRequest struct {
	Rank      int
	First     int
	Size      int
	Precision float64
	Cells     []float64
}

type RelaxResponse struct {
	Rank      int
	Cells     []float64
	Converged bool
	Delta     float64
}

type FinishRequest struct {
	Iterations int
}

type FinishResponse struct {
	Relaxed int
}

type RunRequest struct {
	P Param
}

type RunResponse struct {
	Size       int
	Cells      []float64
	Iterations int
	Workers    int
}

type ProgressRequest struct{}

type ProgressResponse struct {
	Iteration int
	Delta     float64
	Running   bool
}
