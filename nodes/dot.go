package nodes

import (
	"fmt"
	"strconv"
	"strings"
)

// Fill colours for DOT node categories.
const (
	colorTable      = "#6CA6CD" // tables
	colorAttribute  = "#B0D4E8" // columns
	colorComparison = "#FFB347" // leaf predicates
	colorLogical    = "#FFEB80" // AND, OR, NOT
	colorLiteral    = "#D3D3D3" // values, raw SQL, placeholders
	colorJoin       = "#77DD77" // joins
	colorGroup      = "#CDA0E0" // GROUP BY, LIMIT
	colorStatement  = "#FF6961" // SELECT, DELETE
)

type dotNode struct {
	id    string
	label string
	color string
}

type dotEdge struct {
	from  string
	to    string
	label string
}

type dotCluster struct {
	name    string
	color   string
	nodeIDs []string
}

// PluginProvenance records which WHERE conditions were added by which
// plugin, so that DotGraph can draw them inside a per-plugin cluster.
type PluginProvenance struct {
	entries []provenanceEntry
}

type provenanceEntry struct {
	plugin string
	color  string
	index  int
}

// NewPluginProvenance creates an empty provenance tracker.
func NewPluginProvenance() *PluginProvenance {
	return &PluginProvenance{}
}

// AddWhere marks WHERE condition index as belonging to plugin.
func (pp *PluginProvenance) AddWhere(plugin, color string, index int) {
	pp.entries = append(pp.entries, provenanceEntry{plugin: plugin, color: color, index: index})
}

func (pp *PluginProvenance) pluginForWhere(index int) (string, string, bool) {
	if pp == nil {
		return "", "", false
	}
	for _, e := range pp.entries {
		if e.index == index {
			return e.plugin, e.color, true
		}
	}
	return "", "", false
}

// DotGraph accumulates a Graphviz digraph of statement and predicate
// trees. Add one or more roots, then call ToDot.
type DotGraph struct {
	nextID     int
	nodes      []dotNode
	edges      []dotEdge
	clusters   []dotCluster
	provenance *PluginProvenance
}

// NewDotGraph creates an empty graph.
func NewDotGraph() *DotGraph {
	return &DotGraph{}
}

// SetProvenance attributes statement WHERE conditions to plugins.
func (g *DotGraph) SetProvenance(p *PluginProvenance) {
	g.provenance = p
}

// NodeCount returns the number of nodes added so far.
func (g *DotGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *DotGraph) addNode(label, color string) string {
	id := "n" + strconv.Itoa(g.nextID)
	g.nextID++
	g.nodes = append(g.nodes, dotNode{id: id, label: label, color: color})
	return id
}

func (g *DotGraph) addEdge(from, to, label string) {
	g.edges = append(g.edges, dotEdge{from: from, to: to, label: label})
}

// child adds e and an edge to it from parent.
func (g *DotGraph) child(parent, label string, e Expression) string {
	id := g.AddExpression(e)
	g.addEdge(parent, id, label)
	return id
}

func (g *DotGraph) idsSince(start int) []string {
	ids := make([]string, 0, len(g.nodes)-start)
	for _, n := range g.nodes[start:] {
		ids = append(ids, n.id)
	}
	return ids
}

// AddSelect adds a SELECT statement and its clauses, returning the root id.
func (g *DotGraph) AddSelect(s *SelectStatement) string {
	id := g.addNode("SelectStatement", colorStatement)
	for i, p := range s.Projections {
		g.child(id, fmt.Sprintf("PROJ[%d]", i), p)
	}
	if s.From != nil {
		g.child(id, "FROM", s.From)
	}
	for i, j := range s.Joins {
		jid := g.addNode("Join\n"+j.Type.keyword(), colorJoin)
		g.addEdge(id, jid, fmt.Sprintf("JOIN[%d]", i))
		g.child(jid, "TABLE", j.Table)
		if j.On != nil {
			g.child(jid, "ON", j.On)
		}
	}
	g.addWheres(id, s.Wheres)
	if s.Groups != nil && len(s.Groups.by) > 0 {
		g.child(id, "GROUP", s.Groups)
	}
	if s.Limit != nil {
		lid := g.addNode("LIMIT", colorGroup)
		g.addEdge(id, lid, "LIMIT")
		g.child(lid, "", s.Limit)
	}
	return id
}

// AddDelete adds a DELETE statement, returning the root id.
func (g *DotGraph) AddDelete(s *DeleteStatement) string {
	id := g.addNode("DeleteStatement", colorStatement)
	if s.From != nil {
		g.child(id, "FROM", s.From)
	}
	g.addWheres(id, s.Wheres)
	return id
}

func (g *DotGraph) addWheres(parent string, wheres []Predicate) {
	clusters := make(map[string]*dotCluster)
	var order []string
	for i, w := range wheres {
		start := len(g.nodes)
		g.child(parent, fmt.Sprintf("WHERE[%d]", i), w)
		name, color, ok := g.provenance.pluginForWhere(i)
		if !ok {
			continue
		}
		c, seen := clusters[name]
		if !seen {
			c = &dotCluster{name: name, color: color}
			clusters[name] = c
			order = append(order, name)
		}
		c.nodeIDs = append(c.nodeIDs, g.idsSince(start)...)
	}
	for _, name := range order {
		g.clusters = append(g.clusters, *clusters[name])
	}
}

// AddExpression adds the tree rooted at e and returns the id of its root
// node. Nodes of unknown type become a single node labelled with the Go
// type name.
func (g *DotGraph) AddExpression(e Expression) string {
	switch n := e.(type) {
	case *AndPredicate:
		id := g.addNode("AND", colorLogical)
		g.child(id, "LEFT", n.Left)
		g.child(id, "RIGHT", n.Right)
		return id
	case *OrPredicate:
		id := g.addNode("OR", colorLogical)
		g.child(id, "LEFT", n.Left)
		g.child(id, "RIGHT", n.Right)
		return id
	case *ExcludePredicate:
		id := g.addNode("NOT", colorLogical)
		g.child(id, "EXPR", n.Inner)
		return id
	case *IsPredicate:
		op := "="
		if n.Negate {
			op = "<>"
		}
		id := g.addNode("Is\n"+op, colorComparison)
		g.child(id, "LEFT", n.Left)
		g.child(id, "RIGHT", n.Right)
		return id
	case *IsNullPredicate:
		label := "IS NULL"
		if n.Negate {
			label = "IS NOT NULL"
		}
		id := g.addNode(label, colorComparison)
		g.child(id, "EXPR", n.Expr)
		return id
	case *InPredicate:
		label := "IN"
		if n.Negate {
			label = "NOT IN"
		}
		id := g.addNode(label, colorComparison)
		g.child(id, "EXPR", n.Expr)
		for i, v := range n.Vals {
			g.child(id, fmt.Sprintf("VAL[%d]", i), v)
		}
		return id
	case *InRangePredicate:
		id := g.addNode("InRange\n"+n.Bounds.String(), colorComparison)
		g.child(id, "EXPR", n.Expr)
		g.child(id, "FROM", n.From)
		g.child(id, "TO", n.To)
		return id
	case *LikePredicate:
		label := "LIKE"
		if n.Negate {
			label = "NOT LIKE"
		}
		id := g.addNode(label, colorComparison)
		g.child(id, "EXPR", n.Expr)
		g.child(id, "PATTERN", n.Pattern)
		return id
	case *InequalityPredicate:
		id := g.addNode("Inequality\n"+n.Op.String(), colorComparison)
		g.child(id, "EXPR", n.Expr)
		g.child(id, "VALUE", n.Value)
		return id
	case *RawPredicate:
		return g.addNode("RawPredicate\n"+n.SQL, colorLiteral)
	case *Table:
		label := "Table\n" + n.Name
		if n.AliasName != "" {
			label += " AS " + n.AliasName
		}
		return g.addNode(label, colorTable)
	case *GroupBy:
		id := g.addNode("GROUP BY", colorGroup)
		for i, b := range n.by {
			g.child(id, fmt.Sprintf("[%d]", i), b)
		}
		return id
	case dotLeaf:
		label, color := n.dotLabel()
		return g.addNode(label, color)
	}
	return g.addNode(fmt.Sprintf("%T", e), colorLiteral)
}

// dotLeaf is implemented by the generic leaf expressions, which a type
// switch cannot name without a type argument.
type dotLeaf interface {
	dotLabel() (label, color string)
}

func (f *Field[T]) dotLabel() (string, string) {
	name := f.Name
	if f.Relation != nil {
		name = f.Relation.RelationName() + "." + name
	}
	return "Field\n" + name, colorAttribute
}

func (n *Value[T]) dotLabel() (string, string) {
	var v any = n.V
	if s, ok := v.(string); ok {
		return "Value\n" + strconv.Quote(s), colorLiteral
	}
	return fmt.Sprintf("Value\n%v", v), colorLiteral
}

func (n *RawExpression[T]) dotLabel() (string, string) {
	return "Raw\n" + n.SQL, colorLiteral
}

func (n *ExplicitPlaceholder[T]) dotLabel() (string, string) {
	return "Placeholder\n#" + strconv.Itoa(n.Index), colorLiteral
}

// ToDot renders the accumulated graph in DOT syntax.
func (g *DotGraph) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph AST {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	clustered := make(map[string]bool)
	for _, c := range g.clusters {
		for _, id := range c.nodeIDs {
			clustered[id] = true
		}
	}
	byID := make(map[string]dotNode, len(g.nodes))
	for _, n := range g.nodes {
		byID[n.id] = n
		if !clustered[n.id] {
			fmt.Fprintf(&sb, "  %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
		}
	}

	for i, c := range g.clusters {
		fmt.Fprintf(&sb, "  subgraph cluster_%d_%s {\n", i, clusterName(c.name))
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeLabel(c.name))
		sb.WriteString("    style=dashed;\n")
		fmt.Fprintf(&sb, "    color=\"%s\";\n", c.color)
		sb.WriteString("    fontname=\"Helvetica\";\n")
		for _, id := range c.nodeIDs {
			n := byID[id]
			fmt.Fprintf(&sb, "    %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
		}
		sb.WriteString("  }\n")
	}

	for _, e := range g.edges {
		if e.label != "" {
			fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"];\n", e.from, e.to, escapeLabel(e.label))
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", e.from, e.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeLabel makes s safe inside a quoted DOT string. Newlines become
// DOT line breaks.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// clusterName reduces a plugin name to an identifier DOT accepts unquoted.
func clusterName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}
		return '_'
	}, s)
}
