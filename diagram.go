package tdfcore

// DiagramKind enumerates the diagram shapes a block may declare (spec
// §3.3: "hierarchical / flowchart / relationship").
type DiagramKind string

const (
	DiagramHierarchical DiagramKind = "hierarchical"
	DiagramFlowchart    DiagramKind = "flowchart"
	DiagramRelationship DiagramKind = "relationship"
)

// DiagramNode is one node in a diagram's node/edge graph.
type DiagramNode struct {
	ID    string `cbor:"1,keyasint"`
	Label string `cbor:"2,keyasint"`
}

// DiagramEdge connects two node ids, optionally labeled.
type DiagramEdge struct {
	From  string `cbor:"1,keyasint"`
	To    string `cbor:"2,keyasint"`
	Label string `cbor:"3,keyasint,omitempty"`
}

// Diagram is a nodes+edges block of a declared DiagramKind.
type Diagram struct {
	Kind  DiagramKind   `cbor:"1,keyasint"`
	Nodes []DiagramNode `cbor:"2,keyasint"`
	Edges []DiagramEdge `cbor:"3,keyasint"`
}
