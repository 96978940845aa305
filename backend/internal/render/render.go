// Package render prints read views as indented plain text for the terminal.
//
// Stored names and descriptions are exactly what their authors typed, so
// markup is stripped here, at output time, and never on the way in.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nforum-dev/nforum/shared/domain"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips all markup and trims. Entities are decoded again so "Q&A"
// prints as typed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func line(b *strings.Builder, indent int, name string, id domain.Id, description string) {
	fmt.Fprintf(b, "%s%s (%s)", strings.Repeat("  ", indent), Text(name), id)
	if d := Text(description); d != "" {
		fmt.Fprintf(b, " - %s", d)
	}
	b.WriteByte('\n')
}

func node(b *strings.Builder, n domain.ForumNode, indent int) {
	line(b, indent, n.Name, n.Id, n.Description)
	for _, child := range n.SubForums {
		node(b, child, indent+1)
	}
}

func CategoryTree(w io.Writer, tree domain.CategoryTree) error {
	var b strings.Builder
	line(&b, 0, tree.Name, tree.Id, tree.Description)
	for _, f := range tree.Forums {
		node(&b, f, 1)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ForumTree prints the category, then the ancestors top-level first, then
// the forum with its sub-forums.
func ForumTree(w io.Writer, tree domain.ForumTree) error {
	var b strings.Builder
	line(&b, 0, tree.Category.Name, tree.Category.Id, tree.Category.Description)
	indent := 1
	for _, a := range tree.Ancestors {
		line(&b, indent, a.Name, a.Id, a.Description)
		indent++
	}
	node(&b, tree.Node, indent)
	_, err := io.WriteString(w, b.String())
	return err
}

// Thread prints the topic header and one line per reply, marking the latest.
func Thread(w io.Writer, thread domain.TopicThread) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) [%s, %s]\n", Text(thread.Subject), thread.Id, thread.State, thread.Type)
	for _, r := range thread.Replies {
		marker := " "
		if thread.LatestReply != nil && thread.LatestReply.Id == r.Id {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s %s message %s\n", marker, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Id, r.MessageId)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
