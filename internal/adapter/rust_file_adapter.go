package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"traitmut.dev/pkg/traitmut/internal/ast"
)

// DefaultMaxFileSize is the largest input the parser accepts (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	// ErrParse is returned when the source is not valid Rust.
	ErrParse = errors.New("failed to parse rust source")
	// ErrFileTooLarge is returned when the source exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

// fieldNames lists the grammar fields the mutation engines navigate by.
var fieldNames = []string{
	ast.FieldName,
	ast.FieldTypeParameters,
	ast.FieldBounds,
	ast.FieldWhereClause,
	ast.FieldBody,
	ast.FieldTrait,
	ast.FieldType,
	ast.FieldLeft,
	ast.FieldValue,
	ast.FieldDefaultType,
	ast.FieldAlias,
	ast.FieldPath,
	ast.FieldTypeArguments,
	"pattern",
	"return_type",
	"parameters",
	"element",
	"macro",
}

// leafKinds are kept as single tokens even though the grammar splits them.
var leafKinds = map[string]bool{
	ast.KindLineComment:      true,
	ast.KindBlockComment:     true,
	ast.KindStringLiteral:    true,
	ast.KindRawStringLiteral: true,
	ast.KindCharLiteral:      true,
}

// RustFileAdapter turns Rust source into the mutable syntax tree and back.
type RustFileAdapter interface {
	// Parse builds a lossless tree; invalid input yields ErrParse.
	Parse(ctx context.Context, src []byte) (*ast.File, error)

	// Print renders the tree back to source text.
	Print(file *ast.File) ([]byte, error)

	// PrintTokens is the lower-fidelity rendering used when Print fails.
	PrintTokens(file *ast.File) []byte
}

// RustFileAdapterOption configures a LocalRustFileAdapter.
type RustFileAdapterOption func(*LocalRustFileAdapter)

// WithMaxFileSize sets the largest source accepted by Parse.
func WithMaxFileSize(bytes int64) RustFileAdapterOption {
	return func(a *LocalRustFileAdapter) {
		if bytes > 0 {
			a.maxFileSize = bytes
		}
	}
}

// LocalRustFileAdapter is backed by tree-sitter-rust. Each Parse call owns
// its own tree-sitter parser, so one adapter may serve many goroutines.
type LocalRustFileAdapter struct {
	maxFileSize int64
}

// NewLocalRustFileAdapter constructs a LocalRustFileAdapter.
func NewLocalRustFileAdapter(opts ...RustFileAdapterOption) *LocalRustFileAdapter {
	a := &LocalRustFileAdapter{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Parse builds an ast.File for src.
func (a *LocalRustFileAdapter) Parse(ctx context.Context, src []byte) (*ast.File, error) {
	if int64(len(src)) > a.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(src), a.maxFileSize)
	}

	// tree-sitter addresses bytes with uint32 offsets.
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileTooLarge, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pt := bad.StartPoint()
			return nil, fmt.Errorf("%w: unexpected %s at %d:%d", ErrParse, bad.Type(), pt.Row+1, pt.Column+1)
		}

		return nil, ErrParse
	}

	c := &converter{src: src}
	file := &ast.File{Root: c.convert(root, "")}

	if int(c.pos) < len(src) {
		file.Trailing = string(src[c.pos:])
	}

	slog.Debug("parsed rust source", "bytes", len(src), "root", file.Root.Kind)

	return file, nil
}

// Print renders file losslessly.
func (a *LocalRustFileAdapter) Print(file *ast.File) ([]byte, error) {
	return ast.Print(file)
}

// PrintTokens renders file as space-separated tokens.
func (a *LocalRustFileAdapter) PrintTokens(file *ast.File) []byte {
	return ast.PrintTokens(file)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}

	return nil
}

type converter struct {
	src []byte
	pos uint32
}

type span struct {
	start, end uint32
	kind       string
}

func spanOf(n *sitter.Node) span {
	return span{start: n.StartByte(), end: n.EndByte(), kind: n.Type()}
}

func (c *converter) convert(n *sitter.Node, field string) *ast.Node {
	kind := n.Type()

	if n.ChildCount() == 0 || leafKinds[kind] {
		return c.leaf(n, kind, field)
	}

	fields := make(map[span]string)

	for _, name := range fieldNames {
		if child := n.ChildByFieldName(name); child != nil {
			if _, taken := fields[spanOf(child)]; !taken {
				fields[spanOf(child)] = name
			}
		}
	}

	out := &ast.Node{Kind: kind, Field: field}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		out.Children = append(out.Children, c.convert(child, fields[spanOf(child)]))
	}

	return out
}

func (c *converter) leaf(n *sitter.Node, kind, field string) *ast.Node {
	start, end := n.StartByte(), n.EndByte()
	if start < c.pos {
		start = c.pos
	}

	if end < start {
		end = start
	}

	out := &ast.Node{
		Kind:    kind,
		Field:   field,
		Text:    string(c.src[start:end]),
		Leading: string(c.src[c.pos:start]),
	}
	c.pos = end

	return out
}
