// Package protobuf checks schema text for well-formedness as a .proto file.
package protobuf

import (
	"context"
	"fmt"
	"strings"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const virtualFileName = "schema.proto"

// Checker compiles schema text as a single .proto file and requires at
// least one top-level message.
type Checker struct{}

// NewChecker creates a new protobuf checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check compiles the schema text. Standard imports resolve; anything else is
// a compile failure.
func (c *Checker) Check(ctx context.Context, schema string) error {
	resolver := &singleFileResolver{
		fileName: virtualFileName,
		content:  schema,
	}

	compiler := protocompile.Compiler{
		Resolver:       protocompile.WithStandardImports(resolver),
		SourceInfoMode: protocompile.SourceInfoNone,
	}

	files, err := compiler.Compile(ctx, virtualFileName)
	if err != nil {
		return fmt.Errorf("invalid protobuf schema: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files compiled")
	}

	var fd protoreflect.FileDescriptor = files[0]
	if fd.Messages().Len() == 0 {
		return fmt.Errorf("protobuf schema must define at least one message")
	}
	return nil
}

// singleFileResolver provides proto content for compilation.
type singleFileResolver struct {
	fileName string
	content  string
}

func (r *singleFileResolver) FindFileByPath(path string) (protocompile.SearchResult, error) {
	if path == r.fileName {
		return protocompile.SearchResult{
			Source: strings.NewReader(r.content),
		}, nil
	}
	return protocompile.SearchResult{}, fmt.Errorf("file not found: %s", path)
}
