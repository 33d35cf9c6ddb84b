package learner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrThreshold = errors.New("certainty threshold must be within [0.5, 1]")

// Label is one token line of labeller output.
type Label struct {
	// Line is the 1-based line number in the output.
	Line     int
	Correct  string
	Assigned string
	// Probability of Assigned; 1 when the output carries none.
	Probability float64
}

// ParseLabels reads labeller output where the last two columns of each token
// line are the reference label and the assigned label, the latter optionally
// suffixed with "/probability". Blank lines and '#' lines are skipped.
func ParseLabels(r io.Reader) ([]Label, error) {
	var out []Label
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected reference and assigned labels", line)
		}
		l := Label{Line: line, Correct: fields[len(fields)-2], Assigned: fields[len(fields)-1], Probability: 1}
		if i := strings.LastIndexByte(l.Assigned, '/'); i >= 0 {
			p, err := strconv.ParseFloat(l.Assigned[i+1:], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: probability: %w", line, err)
			}
			l.Assigned, l.Probability = l.Assigned[:i], p
		}
		out = append(out, l)
	}
	return out, sc.Err()
}

// Evaluation counts detections of the error label.
type Evaluation struct {
	Correct   int
	Incorrect int
	Total     int
}

func Evaluate(labels []Label, errorLabel string) Evaluation {
	var e Evaluation
	for _, l := range labels {
		if l.Correct == errorLabel {
			e.Total++
		}
		if l.Assigned != errorLabel {
			continue
		}
		if l.Correct == errorLabel {
			e.Correct++
		} else {
			e.Incorrect++
		}
	}
	return e
}

func (e Evaluation) Undetected() int { return e.Total - e.Correct }

func (e Evaluation) Precision() float64 {
	if e.Correct+e.Incorrect == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Correct+e.Incorrect)
}

func (e Evaluation) Recall() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

func FMeasure(precision, recall, beta float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	b2 := beta * beta
	return (1 + b2) * precision * recall / (b2*precision + recall)
}

// WriteUncertain lists the labels assigned with a probability below threshold.
func WriteUncertain(w io.Writer, labels []Label, threshold float64) error {
	if threshold < 0.5 || threshold > 1 {
		return fmt.Errorf("%w: got %g", ErrThreshold, threshold)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "%-20s%-20s%-20s%-30s\n%s\n", "LINE", "CORRECT LABEL", "ASSIGNED LABEL",
		"PROBABILITY OF ASSIGNED LABEL", strings.Repeat("_", 95))
	for _, l := range labels {
		if l.Probability < threshold {
			fmt.Fprintf(&b, "%-20d%-20s%-20s%-30s\n", l.Line, l.Correct, l.Assigned,
				strconv.FormatFloat(l.Probability, 'f', -1, 64))
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

// WriteResults writes the detection counts and the scores in percent.
func WriteResults(w io.Writer, e Evaluation, beta float64) error {
	p, r := e.Precision(), e.Recall()
	hashes := strings.Repeat("#", 41)
	var b bytes.Buffer
	fmt.Fprintf(&b, "\n%s", strings.Repeat("-", 55))
	fmt.Fprintf(&b, "\nCorrect Detections: %d", e.Correct)
	fmt.Fprintf(&b, "\nIncorrect Detections: %d", e.Incorrect)
	fmt.Fprintf(&b, "\nTotal number of errors in the test set: %d", e.Total)
	fmt.Fprintf(&b, "\nUndetected errors: %d", e.Undetected())
	fmt.Fprintf(&b, "\n%s", hashes)
	for _, row := range []struct {
		name  string
		value float64
	}{{"Precision:", p}, {"Recall:", r}, {"F-measure:", FMeasure(p, r, beta)}} {
		fmt.Fprintf(&b, "\n%-20s%-20s#", row.name, strconv.FormatFloat(100*row.value, 'f', -1, 64))
	}
	fmt.Fprintf(&b, "\n%s", hashes)
	_, err := w.Write(b.Bytes())
	return err
}

// AppendResults appends WriteResults output to path.
func AppendResults(path string, e Evaluation, beta float64) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteResults(f, e, beta)
}
