package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyTree is returned when printing a file without a root.
var ErrEmptyTree = errors.New("empty syntax tree")

// Fprint writes the source text of f to w.
func Fprint(w io.Writer, f *File) error {
	if f == nil || f.Root == nil {
		return ErrEmptyTree
	}

	if err := fprint(w, f.Root); err != nil {
		return err
	}

	if _, err := io.WriteString(w, f.Trailing); err != nil {
		return fmt.Errorf("failed to write trailing trivia: %w", err)
	}

	return nil
}

func fprint(w io.Writer, n *Node) error {
	if n == nil {
		return errors.New("nil node in syntax tree")
	}

	if n.IsLeaf() {
		if _, err := io.WriteString(w, n.Leading); err != nil {
			return fmt.Errorf("failed to write trivia: %w", err)
		}

		if _, err := io.WriteString(w, n.Text); err != nil {
			return fmt.Errorf("failed to write token %q: %w", n.Kind, err)
		}

		return nil
	}

	for _, c := range n.Children {
		if err := fprint(w, c); err != nil {
			return err
		}
	}

	return nil
}

// Print returns the source text of f.
func Print(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Fprint(&buf, f); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// PrintTokens renders f as its tokens separated by single spaces, dropping
// comments and original layout. It never fails.
func PrintTokens(f *File) []byte {
	if f == nil || f.Root == nil {
		return nil
	}

	var b strings.Builder

	prev := ""

	Inspect(f.Root, func(n *Node) bool {
		if n.IsComment() {
			return false
		}

		if !n.IsLeaf() {
			return true
		}

		if b.Len() > 0 && prev != "'" {
			b.WriteByte(' ')
		}

		b.WriteString(n.Text)
		prev = n.Text

		return true
	})

	b.WriteByte('\n')

	return []byte(b.String())
}
