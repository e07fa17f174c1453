package forward

// Snapshot is a read-only copy of one evaluation's traces, handed to a
// Plotter.
type Snapshot struct {
	Root    *Node
	Tracked []string    // derivative directions, in tangent order
	States  []NodeState // distinct nodes in postorder, root last
}

// NodeState is the value and partial derivatives computed for one node.
type NodeState struct {
	Node       *Node
	Value      float64
	Derivative map[string]float64
}

// State returns the recorded state of n.
func (s *Snapshot) State(n *Node) (NodeState, bool) {
	for _, st := range s.States {
		if st.Node == n {
			return st, true
		}
	}
	return NodeState{}, false
}

func (p *pass) snapshot(root *Node) *Snapshot {
	snap := &Snapshot{Root: root, Tracked: p.tracked}
	Walk(func(n *Node) {
		t, ok := p.cache[n]
		if !ok {
			return
		}
		snap.States = append(snap.States, NodeState{
			Node:       n,
			Value:      t.value,
			Derivative: p.derivative(t),
		})
	}, root)
	return snap
}
