package arbor

import (
	"fmt"
	"os"
	"time"
)

// logUpdate prints per-frame update timing to stderr. Debug mode only.
func (s *Scene) logUpdate(d time.Duration, nodes int) {
	_, _ = fmt.Fprintf(os.Stderr, "[arbor] update: %v | nodes: %d\n", d, nodes)
}

// logDraw prints per-frame draw timing to stderr. Debug mode only.
func (s *Scene) logDraw(d time.Duration, drawCalls int) {
	_, _ = fmt.Fprintf(os.Stderr, "[arbor] draw: %v | draw calls: %d\n", d, drawCalls)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when Scene.debug or the node's scene is
// in debug mode. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
