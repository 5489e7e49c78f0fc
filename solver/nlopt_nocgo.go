//go:build windows || no_cgo

package solver

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/trajopt/nlp"
)

// NloptSLSQP mimics the type in the cgo-compiled code.
type NloptSLSQP struct {
	Accuracy      float64
	MaxIterations int
}

// NewNloptSLSQP is not supported without cgo.
func NewNloptSLSQP(golog.Logger) *NloptSLSQP {
	return &NloptSLSQP{}
}

// Solve refuses to solve problems without cgo.
func (s *NloptSLSQP) Solve(*nlp.Problem) (Result, error) {
	return Result{}, errors.New("nlopt is not supported on this build")
}
