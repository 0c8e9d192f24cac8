package model

import (
	"fmt"

	"github.com/edp1096/toy-zerod/pkg/block"
	"github.com/edp1096/toy-zerod/pkg/matrix"
)

// Node is one shared wiring point between two blocks. It owns a pressure and
// a flow unknown; blocks reference them through their assigned variable
// indices, never through the node itself.
type Node struct {
	name       string
	presIdx    int
	flowIdx    int
	upstream   []block.Block // blocks for which this node is an outlet
	downstream []block.Block // blocks for which this node is an inlet
}

func (n *Node) Name() string       { return n.name }
func (n *Node) PressureIndex() int { return n.presIdx }
func (n *Node) FlowIndex() int     { return n.flowIdx }

type wiring struct {
	blk     block.Block
	inlets  []*Node
	outlets []*Node
}

// Model is the validated network: blocks, shared nodes and the global DOF
// layout. Topology is immutable after Finalize; only valve state may change
// between steps.
type Model struct {
	name      string
	nodeMap   map[string]*Node
	nodes     []*Node
	wirings   []wiring
	blocks    []block.Block
	valves    []*block.Valve
	dofs      *DOFHandler
	initial   map[int]float64
	pattern   [][2]int
	finalized bool
}

func New(name string) *Model {
	return &Model{
		name:    name,
		nodeMap: make(map[string]*Node),
		initial: make(map[int]float64),
		dofs:    newDOFHandler(),
	}
}

func (m *Model) Name() string { return m.name }

func (m *Model) node(name string) *Node {
	if n, exists := m.nodeMap[name]; exists {
		return n
	}
	n := &Node{name: name}
	m.nodeMap[name] = n
	m.nodes = append(m.nodes, n)
	return n
}

// AddBlock wires a block to named nodes. Nodes are created on first use and
// deduplicated by name, which merges shared junction points.
func (m *Model) AddBlock(b block.Block, inlets, outlets []string) error {
	if m.finalized {
		return ErrFinalized
	}
	if err := b.CheckPorts(len(inlets), len(outlets)); err != nil {
		return fmt.Errorf("%w: %v", ErrTopology, err)
	}

	w := wiring{blk: b}
	for _, name := range inlets {
		n := m.node(name)
		n.downstream = append(n.downstream, b)
		w.inlets = append(w.inlets, n)
	}
	for _, name := range outlets {
		n := m.node(name)
		n.upstream = append(n.upstream, b)
		w.outlets = append(w.outlets, n)
	}

	m.wirings = append(m.wirings, w)
	m.blocks = append(m.blocks, b)
	if v, ok := b.(*block.Valve); ok {
		m.valves = append(m.valves, v)
	}
	return nil
}

// Finalize validates the topology and assigns the global DOF layout. After a
// successful call the model is ready for assembly.
func (m *Model) Finalize() error {
	if m.finalized {
		return nil
	}
	if len(m.blocks) == 0 {
		return &TopologyError{Subject: m.name, Reason: "model has no blocks"}
	}

	for _, n := range m.nodes {
		if len(n.upstream) == 0 {
			return &TopologyError{Subject: n.name, Reason: "node has no upstream connection"}
		}
		if len(n.downstream) == 0 {
			return &TopologyError{Subject: n.name, Reason: "node has no downstream connection"}
		}
		if len(n.upstream) > 1 {
			return &TopologyError{Subject: n.name,
				Reason: fmt.Sprintf("node has %d upstream connections, junctions must be explicit", len(n.upstream))}
		}
		if len(n.downstream) > 1 {
			return &TopologyError{Subject: n.name,
				Reason: fmt.Sprintf("node has %d downstream connections, junctions must be explicit", len(n.downstream))}
		}
	}

	if err := m.checkConnected(); err != nil {
		return err
	}

	// Node unknowns first, in wiring order, then block internals.
	for _, n := range m.nodes {
		n.presIdx = m.dofs.RegisterVariable(n.name + ":pressure")
		n.flowIdx = m.dofs.RegisterVariable(n.name + ":flow")
	}
	for _, w := range m.wirings {
		vars := make([]int, 0, 2*(len(w.inlets)+len(w.outlets)))
		for _, n := range w.inlets {
			vars = append(vars, n.presIdx, n.flowIdx)
		}
		for _, n := range w.outlets {
			vars = append(vars, n.presIdx, n.flowIdx)
		}
		for _, internal := range w.blk.InternalVarNames() {
			vars = append(vars, m.dofs.RegisterVariable(w.blk.Name()+":"+internal))
		}
		eqns := m.dofs.RegisterEquations(w.blk.NumEquations())
		w.blk.AssignDOFs(vars, eqns)

		for _, e := range eqns {
			for _, v := range vars {
				m.pattern = append(m.pattern, [2]int{e, v})
			}
		}
	}

	if m.dofs.NumVars() != m.dofs.NumEquations() {
		return &TopologyError{Subject: m.name,
			Reason: fmt.Sprintf("system is not square: %d unknowns, %d equations",
				m.dofs.NumVars(), m.dofs.NumEquations())}
	}

	m.finalized = true
	return nil
}

// checkConnected walks the block-node graph; isolated subnetworks are a
// build error.
func (m *Model) checkConnected() error {
	if len(m.wirings) == 0 {
		return nil
	}
	seen := make(map[block.Block]bool)
	adjacent := make(map[block.Block][]block.Block)
	for _, n := range m.nodes {
		for _, up := range n.upstream {
			for _, down := range n.downstream {
				adjacent[up] = append(adjacent[up], down)
				adjacent[down] = append(adjacent[down], up)
			}
		}
	}

	queue := []block.Block{m.blocks[0]}
	seen[m.blocks[0]] = true
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[b] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, b := range m.blocks {
		if !seen[b] {
			return &TopologyError{Subject: b.Name(), Reason: "block is not connected to the network"}
		}
	}
	return nil
}

// Stamp assembles every block's local contribution into the global system.
// Pure read transform of the status; additive across blocks sharing a node.
func (m *Model) Stamp(sys matrix.Stamper, st *block.Status) error {
	for _, b := range m.blocks {
		if err := b.Stamp(sys, st); err != nil {
			return fmt.Errorf("stamping block %s: %v", b.Name(), err)
		}
	}
	return nil
}

func (m *Model) NumVars() int { return m.dofs.NumVars() }

// Pattern lists the (equation, variable) pairs every block can touch, for
// sparse fill preallocation.
func (m *Model) Pattern() [][2]int { return m.pattern }

func (m *Model) Blocks() []block.Block { return m.blocks }

func (m *Model) Valves() []*block.Valve { return m.valves }

// UpdateValves applies each valve's transition rule to a committed solution
// and reports the number of state changes. Called once per accepted step;
// the new states take effect with the next step.
func (m *Model) UpdateValves(y []float64) int {
	transitions := 0
	for _, v := range m.valves {
		if v.UpdateState(y) {
			transitions++
		}
	}
	return transitions
}

// VarIndex resolves a variable by name, e.g. "inlet:pressure" or
// "ventricle:volume".
func (m *Model) VarIndex(name string) (int, bool) {
	return m.dofs.Index(name)
}

func (m *Model) VarName(idx int) string { return m.dofs.VarName(idx) }

// SetInitial overrides the initial value of a named variable. Applied once by
// the analysis before the first step; closed-loop models need a nonzero
// initial chamber volume to set the total blood volume.
func (m *Model) SetInitial(varName string, value float64) error {
	idx, ok := m.dofs.Index(varName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, varName)
	}
	m.initial[idx] = value
	return nil
}

// ApplyInitial writes the registered initial-condition overrides into y.
func (m *Model) ApplyInitial(y []float64) {
	for idx, v := range m.initial {
		y[idx] = v
	}
}
