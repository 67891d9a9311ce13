package services

import "ideahub/internal/models"

// CommentNode is a comment together with its direct replies.
type CommentNode struct {
	models.Comment
	Depth   int            `json:"depth"`
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree arranges a flat comment list into a reply forest.
//
// Siblings keep the order of the input. A comment whose parent is absent from
// the list, or that names itself as parent, is placed at the top level. When
// parent links form a cycle the first member met in input order is promoted
// to the top level, so every input comment appears exactly once.
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make([]*CommentNode, len(comments))
	byID := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		n := &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
		nodes[i] = n
		byID[n.ID] = n // 重复 ID 以最后一个为准
	}

	parentOf := make(map[*CommentNode]*CommentNode, len(comments))
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		if p, ok := byID[*n.ParentID]; ok && p != n {
			parentOf[n] = p
		}
	}

	roots := make([]*CommentNode, 0, len(nodes))
	for _, n := range nodes {
		p, ok := parentOf[n]
		if ok && reachesSelf(n, p, parentOf, len(nodes)) {
			delete(parentOf, n)
			ok = false
		}
		if !ok {
			roots = append(roots, n)
			continue
		}
		p.Replies = append(p.Replies, n)
	}

	setDepth(roots, 0)
	return roots
}

// reachesSelf walks up from p and reports whether it arrives back at n.
func reachesSelf(n, p *CommentNode, parentOf map[*CommentNode]*CommentNode, limit int) bool {
	for steps := 0; p != nil && steps <= limit; steps++ {
		if p == n {
			return true
		}
		p = parentOf[p]
	}
	return false
}

func setDepth(level []*CommentNode, depth int) {
	for len(level) > 0 {
		var next []*CommentNode
		for _, n := range level {
			n.Depth = depth
			next = append(next, n.Replies...)
		}
		level = next
		depth++
	}
}

// CountComments counts every node of the forest.
func CountComments(roots []*CommentNode) int {
	total := 0
	stack := append([]*CommentNode(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, n.Replies...)
	}
	return total
}
