package interval

import (
	"fmt"
	"strings"
)

// String dumps the tree in pre-order, one line per node, indented by
// depth. Ported from InsertOnlyIntervalTree::printTreePreOrder; useful
// only for debugging a construction gone wrong.
func (t *Tree[T]) String() string {
	var b strings.Builder
	printNode(&b, t.root, 0)
	return b.String()
}

func printNode[T Interval](b *strings.Builder, n *node[T], depth int) {
	if n == nil {
		return
	}
	fmt.Fprintf(b, "%s[%d,%d] max=%d red=%v\n", strings.Repeat("  ", depth),
		n.item.IntervalStart(), n.item.IntervalEnd(), n.max, n.isRed)
	for s := n.sibling; s != nil; s = s.sibling {
		fmt.Fprintf(b, "%s= [%d,%d] (sibling)\n", strings.Repeat("  ", depth+1),
			s.item.IntervalStart(), s.item.IntervalEnd())
	}
	printNode(b, n.left, depth+1)
	printNode(b, n.right, depth+1)
}
