// File: arena.go
// Title: Tree Arena
// Description: Growable node store used while a document is being parsed.
//              Nodes are addressed by NodeID so the parser can keep a stack
//              of open ancestors without holding pointers into a slice that
//              may be reallocated. Build freezes the arena into the public
//              pointer tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-04
// Modified: 2026-10-04
//
// Change History:
// - 2026-10-04 v0.1.0: Initial arena

package tree

// NodeID addresses a node inside an Arena
type NodeID int

// NoNode is the NodeID of "no node", used for the implicit document root
const NoNode NodeID = -1

type arenaNode struct {
	item     ProjectItem
	children []NodeID
	attached bool
}

// Arena owns every node of a tree under construction
type Arena struct {
	nodes []arenaNode
	roots []NodeID
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// New stores item as a detached node and returns its ID. Children of item
// are ignored; structure is expressed with Attach.
func (a *Arena) New(item ProjectItem) NodeID {
	item.Children = nil
	a.nodes = append(a.nodes, arenaNode{item: item})
	return NodeID(len(a.nodes) - 1)
}

// Attach appends child to parent's children, or to the top level when
// parent is NoNode. A node is attached at most once.
func (a *Arena) Attach(parent, child NodeID) {
	if !a.valid(child) || a.nodes[child].attached {
		return
	}
	a.nodes[child].attached = true

	if parent == NoNode || !a.valid(parent) {
		a.roots = append(a.roots, child)
		return
	}
	a.nodes[parent].children = append(a.nodes[parent].children, child)
}

// Update applies fn to the node stored under id. The pointer passed to fn
// must not be retained.
func (a *Arena) Update(id NodeID, fn func(*ProjectItem)) {
	if !a.valid(id) {
		return
	}
	fn(&a.nodes[id].item)
}

// Get returns a copy of the node stored under id
func (a *Arena) Get(id NodeID) ProjectItem {
	if !a.valid(id) {
		return ProjectItem{}
	}
	return a.nodes[id].item
}

// Len returns the number of nodes in the arena
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Build returns the attached nodes as a pointer tree in document order.
// Transient nodes are dropped.
func (a *Arena) Build() []*ProjectItem {
	return a.build(a.roots)
}

func (a *Arena) build(ids []NodeID) []*ProjectItem {
	var out []*ProjectItem
	for _, id := range ids {
		item := a.nodes[id].item
		item.Children = a.build(a.nodes[id].children)
		if item.IsTransient() {
			continue
		}
		out = append(out, &item)
	}
	return out
}

func (a *Arena) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}
