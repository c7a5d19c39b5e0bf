package devtools

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"tokenvitals/pkg/engine/sched"
	"tokenvitals/pkg/game/state"
)

const defaultTermWidth = 80

var (
	colorHeading = color.Style{color.FgCyan, color.OpBold}
	colorLabel   = color.Style{color.FgGray}
	colorValue   = color.Style{color.FgGreen}
	colorWarning = color.Style{color.FgYellow, color.OpBold}
)

// termWidth returns the terminal width, falling back to a default when it
// cannot be determined.
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// rule prints a labelled horizontal line spanning the terminal.
func rule(label string) {
	width := termWidth()
	label = " " + label + " "
	side := (width - len(label)) / 2
	if side < 1 {
		side = 1
	}
	fmt.Println(colorLabel.Sprint(strings.Repeat("─", side) + label + strings.Repeat("─", width-side-len(label))))
}

// DumpState prints scheduler and cache statistics to the terminal.
func DumpState(b *state.Board, frame uint64, stats sched.Stats, queued, geomLen, uncLen int, observer string) {
	rule("overlay state")

	colorHeading.Println("Scheduler")
	printStat("frame", frame)
	printStat("cycles", stats.Cycles)
	printStat("batches", stats.Batches)
	printStat("processed", stats.Processed)
	printStat("last drain", stats.LastDrain)
	printStat("queued", queued)
	if stats.Recovered > 0 {
		fmt.Printf("  %s %s\n", colorLabel.Sprint("recovered panics:"), colorWarning.Sprint(stats.Recovered))
	}

	colorHeading.Println("Caches")
	printStat("geometry records", geomLen)
	printStat("uncertainty records", uncLen)

	colorHeading.Println("Board")
	printStat("tokens", len(b.Tokens))
	printStat("round", b.Round)
	printStat("selected", b.Selected.Size())
	printStat("observer", observer)

	alive := 0
	for _, t := range b.Tokens {
		if t.Alive() {
			alive++
		}
	}
	printStat("alive", alive)

	rule("end")
}

func printStat(label string, v any) {
	fmt.Printf("  %s %s\n", colorLabel.Sprint(label+":"), colorValue.Sprint(v))
}
