// Package learner talks to the external sequence labeller trained on the
// generated corpus and scores its output.
package learner

import "context"

// Spec describes a training run.
type Spec struct {
	Template  string
	Training  string
	Model     string
	Algorithm string
	C         float64
	F         int
}

// Model is a trained model handle.
type Model struct {
	Path string
}

// Input is a labelling request.
type Input struct {
	Path string
	// Probabilities asks for the probability of every assigned label.
	Probabilities bool
}

type Learner interface {
	Train(ctx context.Context, spec Spec) (Model, error)
	Label(ctx context.Context, m Model, in Input) ([]byte, error)
}
