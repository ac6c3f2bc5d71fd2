package aspen

import (
	"fmt"
	"os"
)

// globalDebug mirrors the most recently set World debug flag so that entity
// operations (which may lack a World pointer) can check it cheaply. Only
// valid with a single World; multiple Worlds with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// warnf prints a non-fatal warning to stderr.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[aspen] warning: "+format+"\n", args...)
}

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed
// entity is used in a tree operation. Only called in debug mode; release
// mode skips this entirely.
func debugCheckDestroyed(e *Entity, op string) {
	if e.destroyed {
		panic(fmt.Sprintf("aspen debug: %s on destroyed entity %q (ID %d)", op, e.Name, e.id))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[aspen] warning: tree depth %d exceeds %d (entity %q)\n",
			depth, debugMaxTreeDepth, e.Name)
	}
}

// debugCheckChildCount warns on stderr if an entity has more than 1000
// children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	if len(e.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[aspen] warning: entity %q has %d children (threshold %d)\n",
			e.Name, len(e.children), debugMaxChildCount)
	}
}
