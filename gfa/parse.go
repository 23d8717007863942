package gfa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Sequences run to megabases in real pangenomes, so the scanner needs far
// more than the default 64K token limit.
const maxLineBytes = 64 * 1024 * 1024

// pendingEdge is a link seen before validation; GFA permits L lines that
// reference segments declared later in the file.
type pendingEdge struct {
	edge Edge
	line int
}

type pendingPath struct {
	path *Path
	line int
}

// Parse reads GFA 1.0 from r. S, L and P records are loaded; header and
// other record types are skipped. Segment names must be numeric. Links and
// path steps are resolved after the whole file is read, so declaration
// order doesn't matter.
func Parse(r io.Reader) (*Graph, error) {
	g := newGraph()
	var edges []pendingEdge
	var paths []pendingPath

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		switch fields[0] {
		case "S":
			if err := parseSegment(g, fields, line); err != nil {
				return nil, err
			}
		case "L":
			e, err := parseLink(fields, line)
			if err != nil {
				return nil, err
			}
			edges = append(edges, pendingEdge{edge: e, line: line})
		case "P":
			p, err := parsePath(fields, line)
			if err != nil {
				return nil, err
			}
			paths = append(paths, pendingPath{path: p, line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	for _, pe := range edges {
		if !g.HasNode(pe.edge.From) {
			return nil, fmt.Errorf("line %d: link references unknown segment %d", pe.line, pe.edge.From)
		}
		if !g.HasNode(pe.edge.To) {
			return nil, fmt.Errorf("line %d: link references unknown segment %d", pe.line, pe.edge.To)
		}
		g.addEdge(pe.edge)
	}
	for _, pp := range paths {
		for _, st := range pp.path.Steps {
			if !g.HasNode(st.Node) {
				return nil, fmt.Errorf("line %d: path %q references unknown segment %d", pp.line, pp.path.Name, st.Node)
			}
		}
		if _, dup := g.pathsByName[pp.path.Name]; dup {
			return nil, fmt.Errorf("line %d: duplicate path %q", pp.line, pp.path.Name)
		}
		g.addPath(pp.path)
	}

	g.finish()
	return g, nil
}

// ParseFile opens and parses a GFA file.
func ParseFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gfa: %w", err)
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

func parseSegment(g *Graph, fields []string, line int) error {
	if len(fields) < 3 {
		return fmt.Errorf("line %d: segment needs name and sequence", line)
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: segment name %q is not numeric: %w", line, fields[1], err)
	}
	if g.HasNode(id) {
		return fmt.Errorf("line %d: duplicate segment %d", line, id)
	}
	seq := fields[2]
	if seq == "*" {
		seq = ""
	}
	g.addNode(id, seq)
	return nil
}

func parseLink(fields []string, line int) (Edge, error) {
	if len(fields) < 5 {
		return Edge{}, fmt.Errorf("line %d: link needs from, to and orientations", line)
	}
	from, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("line %d: link from %q is not numeric: %w", line, fields[1], err)
	}
	fromRev, err := parseOrient(fields[2], line)
	if err != nil {
		return Edge{}, err
	}
	to, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("line %d: link to %q is not numeric: %w", line, fields[3], err)
	}
	toRev, err := parseOrient(fields[4], line)
	if err != nil {
		return Edge{}, err
	}
	return Edge{From: from, To: to, FromRev: fromRev, ToRev: toRev}, nil
}

func parsePath(fields []string, line int) (*Path, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("line %d: path needs a name and steps", line)
	}
	name := fields[1]
	if name == "" {
		return nil, fmt.Errorf("line %d: empty path name", line)
	}
	p := &Path{Name: name}
	for _, tok := range strings.Split(fields[2], ",") {
		if tok == "" {
			return nil, fmt.Errorf("line %d: path %q has an empty step", line, name)
		}
		orient := tok[len(tok)-1]
		if orient != '+' && orient != '-' {
			return nil, fmt.Errorf("line %d: path step %q missing orientation", line, tok)
		}
		id, err := strconv.ParseUint(tok[:len(tok)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: path step %q is not numeric: %w", line, tok, err)
		}
		p.Steps = append(p.Steps, Step{Node: id, Reverse: orient == '-'})
	}
	return p, nil
}

func parseOrient(s string, line int) (bool, error) {
	switch s {
	case "+":
		return false, nil
	case "-":
		return true, nil
	default:
		return false, fmt.Errorf("line %d: orientation %q must be + or -", line, s)
	}
}
