package db

import (
	"fmt"
	"io"
	"strings"
)

// WriteGraphviz writes the history reachable from start as a graphviz
// digraph, one node per commit labelled with its subject and one arrow
// per parent link.
func WriteGraphviz(w io.Writer, store Store, start string) (err error) {
	_, err = fmt.Fprintln(w, "digraph gblog{")
	if err != nil {
		return
	}
	_, err = fmt.Fprintln(w, "  node[shape=rect]")
	if err != nil {
		return
	}
	walker := Walk(store, start)
	for {
		step, ok := walker.Next()
		if !ok {
			break
		}
		if step.IsEdge() {
			_, err = fmt.Fprintf(w, "  c_%s -> c_%s;\n", step.Digest, step.Parent)
		} else {
			_, err = fmt.Fprintf(w, "  c_%s [label=\"%s: %s\"];\n",
				step.Digest, short(step.Digest), dotEscape(step.Commit.Subject()))
		}
		if err != nil {
			return
		}
	}
	if err = walker.Err(); err != nil {
		return
	}
	_, err = fmt.Fprintln(w, "}")
	return
}

// WriteOneline writes one "<digest> <subject>" line per commit reachable
// from start, in walk order.
func WriteOneline(w io.Writer, store Store, start string) (err error) {
	walker := Walk(store, start)
	for {
		step, ok := walker.Next()
		if !ok {
			break
		}
		if step.IsEdge() {
			continue
		}
		_, err = fmt.Fprintf(w, "%s %s\n", step.Digest, step.Commit.Subject())
		if err != nil {
			return
		}
	}
	return walker.Err()
}

func short(digest string) string {
	if len(digest) > 7 {
		return digest[:7]
	}
	return digest
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
