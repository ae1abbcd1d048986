package model

// NodeKind identifies the role of a node in a rendered view
type NodeKind string

const (
	NodeFragment  NodeKind = "fragment"
	NodeParagraph NodeKind = "paragraph"
	NodeHeading   NodeKind = "heading"
	NodeValue     NodeKind = "value"
	NodeBlock     NodeKind = "block"
	NodeLink      NodeKind = "link"
)

// Node is an element of a rendered view tree. Renderers (HTML, JSON, terminal)
// translate it into their own output without changing its structure.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Href     string   `json:"href,omitempty"`
	Styles   []string `json:"styles,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Walk visits the node and its descendants in document order.
// Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node of the given kind, or nil
func (n *Node) Find(kind NodeKind) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.Kind == kind {
			found = node
			return false
		}
		return true
	})
	return found
}

// Texts returns every non-empty text in document order
func (n *Node) Texts() []string {
	var texts []string
	n.Walk(func(node *Node) bool {
		if node.Text != "" {
			texts = append(texts, node.Text)
		}
		return true
	})
	return texts
}

// HasStyle reports whether the named style rule is applied to this node
func (n *Node) HasStyle(name string) bool {
	if n == nil {
		return false
	}
	for _, s := range n.Styles {
		if s == name {
			return true
		}
	}
	return false
}
