package domain

// Read-only views assembled by the datastore. They hold copies of entities
// and never point back up the tree; parents are reachable through the ids
// on each entity (and ForumTree.Ancestors).

type ForumNode struct {
	Forum
	SubForums []ForumNode
}

type CategoryTree struct {
	Category
	Forums []ForumNode
}

type ForumTree struct {
	Category  Category
	Ancestors []Forum // top-level forum first, direct parent last
	Node      ForumNode
}

type TopicThread struct {
	Topic
	Replies     []Reply
	LatestReply *Reply // nil when unset or the reply no longer exists
}

// Depth returns how many levels of forums hang below the node itself.
func (n ForumNode) Depth() int {
	depth := 0
	for _, child := range n.SubForums {
		depth = max(depth, child.Depth()+1)
	}
	return depth
}
