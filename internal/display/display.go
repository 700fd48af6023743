// Package display draws evaluated samples in a terminal.
package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/born-ml/digitnet/internal/dataset"
)

// Source is a sequence of evaluated samples.
type Source interface {
	Len() int
	Pixels(i int) []float64
	Label(i int) int
	Prediction(i int) int
}

// ramp maps pixel intensity to characters, darkest first.
const ramp = " .:-=+*#%@"

// shade returns the character for a raw pixel magnitude in [0, 255].
func shade(v float64) byte {
	switch {
	case v <= 0:
		return ramp[0]
	case v >= 255:
		return ramp[len(ramp)-1]
	}
	return ramp[int(v/256*float64(len(ramp)))]
}

// Render writes one sample as a 28×28 character grid followed by its true
// and predicted labels.
func Render(w io.Writer, pixels []float64, label, predicted int) error {
	if len(pixels) != dataset.ImageSize {
		return fmt.Errorf("%w: %d pixels, want %d", dataset.ErrBadDimensions, len(pixels), dataset.ImageSize)
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", dataset.ImageCols) + "+\n"
	b.WriteString(border)
	for row := 0; row < dataset.ImageRows; row++ {
		b.WriteByte('|')
		for col := 0; col < dataset.ImageCols; col++ {
			b.WriteByte(shade(pixels[row*dataset.ImageCols+col]))
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)

	mark := "ok"
	if label != predicted {
		mark = "MISS"
	}
	fmt.Fprintf(&b, "label=%d predicted=%d %s\n", label, predicted, mark)

	_, err := io.WriteString(w, b.String())
	return err
}

// Viewer steps through a Source on user input.
//
// Commands, one per line: empty line or "n" shows the next sample, "p" the
// previous one, "q" quits. Input EOF also quits.
type Viewer struct {
	In                io.Reader
	Out               io.Writer
	OnlyMisclassified bool
}

// Run shows the first sample and then follows the commands read from In.
func (v *Viewer) Run(src Source) error {
	positions := v.positions(src)
	if len(positions) == 0 {
		_, err := fmt.Fprintln(v.Out, "no samples to show")
		return err
	}

	in := bufio.NewScanner(v.In)
	cur := 0
	for {
		i := positions[cur]
		fmt.Fprintf(v.Out, "sample %d (%d/%d)\n", i, cur+1, len(positions))
		if err := Render(v.Out, src.Pixels(i), src.Label(i), src.Prediction(i)); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		fmt.Fprint(v.Out, "[enter/n] next  [p] previous  [q] quit > ")

		if !in.Scan() {
			fmt.Fprintln(v.Out)
			return in.Err()
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "", "n":
			if cur < len(positions)-1 {
				cur++
			}
		case "p":
			if cur > 0 {
				cur--
			}
		case "q":
			return nil
		}
	}
}

func (v *Viewer) positions(src Source) []int {
	var out []int
	for i := 0; i < src.Len(); i++ {
		if v.OnlyMisclassified && src.Label(i) == src.Prediction(i) {
			continue
		}
		out = append(out, i)
	}
	return out
}
