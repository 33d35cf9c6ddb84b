package learner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
)

var ErrUnavailable = errors.New("CRF++ was not detected on this system")

const (
	AlgorithmL1 = "CRF-L1"
	AlgorithmL2 = "CRF-L2"
)

// NormalizeAlgorithm maps a case-insensitive algorithm name to the form
// crf_learn expects. Unknown names give AlgorithmL2 and false.
func NormalizeAlgorithm(a string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(a)) {
	case AlgorithmL1:
		return AlgorithmL1, true
	case AlgorithmL2:
		return AlgorithmL2, true
	}
	return AlgorithmL2, false
}

// CRFPP runs the crf_learn and crf_test binaries.
type CRFPP struct {
	LearnPath string
	TestPath  string
	Logger    *log.Logger
}

func NewCRFPP(logger *log.Logger) *CRFPP {
	if logger == nil {
		logger = log.Default()
	}
	return &CRFPP{LearnPath: "crf_learn", TestPath: "crf_test", Logger: logger}
}

// Available checks that crf_learn runs and identifies itself.
func (c *CRFPP) Available(ctx context.Context) error {
	out, _ := exec.CommandContext(ctx, c.LearnPath).CombinedOutput()
	if !bytes.Contains(out, []byte("Yet Another")) {
		return ErrUnavailable
	}
	return nil
}

func (c *CRFPP) Train(ctx context.Context, spec Spec) (Model, error) {
	alg, ok := NormalizeAlgorithm(spec.Algorithm)
	if !ok {
		c.Logger.Printf("learner: unknown algorithm %q, training with %s", spec.Algorithm, alg)
	}
	f := max(spec.F, 1)
	cost := spec.C
	if cost <= 0 {
		cost = 1
	}
	c.Logger.Printf("learner: training with a=%s c=%g f=%d", alg, cost, f)

	cmd := exec.CommandContext(ctx, c.LearnPath,
		"-a", alg,
		"-c", strconv.FormatFloat(cost, 'f', -1, 64),
		"-f", strconv.Itoa(f),
		spec.Template, spec.Training, spec.Model)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Model{}, fmt.Errorf("crf_learn: %w: %s", err, tail(out))
	}
	return Model{Path: spec.Model}, nil
}

func (c *CRFPP) Label(ctx context.Context, m Model, in Input) ([]byte, error) {
	if m.Path == "" {
		return nil, errors.New("crf_test: no model file")
	}
	args := []string{"-m", m.Path, in.Path}
	if in.Probabilities {
		args = append([]string{"-v1"}, args...)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.TestPath, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("crf_test: %w: %s", err, tail(stderr.Bytes()))
	}
	return out, nil
}

func tail(out []byte) string {
	const keep = 512
	s := strings.TrimSpace(string(out))
	if len(s) > keep {
		s = "..." + s[len(s)-keep:]
	}
	return s
}
