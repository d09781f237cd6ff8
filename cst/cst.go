// Package cst reads Go source files into a concrete syntax tree that retains
// exact byte offsets into the original source text, so that later edits can
// be spliced in without reformatting anything the edit didn't touch.
package cst

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// ByteRange is a half-open [Start, End) byte offset pair into a source file's
// original bytes.
type ByteRange struct {
	Start int
	End   int
}

func (r ByteRange) Len() int { return r.End - r.Start }

// DeclKind classifies a top-level declaration found while reading a file.
type DeclKind int

const (
	DeclUnknown DeclKind = iota
	DeclStruct
	DeclFunc
	DeclVar
	DeclConst
	DeclImport
)

// Decl is a top-level declaration located in a source file, with its byte
// range in the file's original text.
type Decl struct {
	Kind  DeclKind
	Name  string
	Range ByteRange

	// Node is the underlying go/ast node, retained for structural inspection
	// (e.g. walking a struct's fields, or a function's parameter list).
	Node ast.Node
}

// File is a parsed Go source file: its original bytes, its declarations with
// byte ranges, and the token.FileSet needed to translate further ast
// positions back to offsets.
type File struct {
	Path    string
	Src     []byte
	FileSet *token.FileSet
	AST     *ast.File
	Decls   []Decl
}

// Read parses a Go source file and returns its top-level declarations with
// byte ranges into src. It parses comments so doc comments survive any
// downstream formatting of newly spliced-in text.
func Read(path string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	tf := fset.File(astFile.Package)

	f := &File{
		Path:    path,
		Src:     src,
		FileSet: fset,
		AST:     astFile,
	}

	for _, decl := range astFile.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					kind := DeclUnknown
					if _, ok := s.Type.(*ast.StructType); ok {
						kind = DeclStruct
					}
					f.Decls = append(f.Decls, Decl{
						Kind:  kind,
						Name:  s.Name.Name,
						Range: declRange(tf, d),
						Node:  d,
					})
				case *ast.ValueSpec:
					kind := DeclVar
					if d.Tok == token.CONST {
						kind = DeclConst
					}
					for _, name := range s.Names {
						f.Decls = append(f.Decls, Decl{
							Kind:  kind,
							Name:  name.Name,
							Range: declRange(tf, d),
							Node:  d,
						})
					}
				case *ast.ImportSpec:
					f.Decls = append(f.Decls, Decl{
						Kind:  DeclImport,
						Name:  s.Path.Value,
						Range: declRange(tf, d),
						Node:  d,
					})
				}
			}
		case *ast.FuncDecl:
			f.Decls = append(f.Decls, Decl{
				Kind:  DeclFunc,
				Name:  d.Name.Name,
				Range: declRange(tf, d),
				Node:  d,
			})
		}
	}

	return f, nil
}

func declRange(tf *token.File, node ast.Node) ByteRange {
	return ByteRange{
		Start: tf.Offset(node.Pos()),
		End:   tf.Offset(node.End()),
	}
}

// FindStruct returns the declaration for the named struct type, if any.
func (f *File) FindStruct(name string) (*Decl, bool) {
	for i := range f.Decls {
		if f.Decls[i].Kind == DeclStruct && f.Decls[i].Name == name {
			return &f.Decls[i], true
		}
	}
	return nil, false
}

// FindFunc returns the declaration for the named function, if any.
func (f *File) FindFunc(name string) (*Decl, bool) {
	for i := range f.Decls {
		if f.Decls[i].Kind == DeclFunc && f.Decls[i].Name == name {
			return &f.Decls[i], true
		}
	}
	return nil, false
}

// StructFields returns the field names and type expressions (rendered to
// source text) of a struct declaration.
func (f *File) StructFields(d *Decl) ([]Field, error) {
	genDecl, ok := d.Node.(*ast.GenDecl)
	if !ok {
		return nil, fmt.Errorf("%s is not a type declaration", d.Name)
	}
	for _, spec := range genDecl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || ts.Name.Name != d.Name {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return nil, fmt.Errorf("%s is not a struct", d.Name)
		}
		var fields []Field
		for _, fl := range st.Fields.List {
			typeStr := exprString(f.Src, f.FileSet, fl.Type)
			tag := ""
			if fl.Tag != nil {
				tag = fl.Tag.Value
			}
			if len(fl.Names) == 0 {
				fields = append(fields, Field{Name: typeStr, Type: typeStr, Tag: tag, Embedded: true})
				continue
			}
			for _, n := range fl.Names {
				fields = append(fields, Field{Name: n.Name, Type: typeStr, Tag: tag})
			}
		}
		return fields, nil
	}
	return nil, fmt.Errorf("struct %s not found in declaration", d.Name)
}

// Field is a single struct field as read from source.
type Field struct {
	Name     string
	Type     string
	Tag      string
	Embedded bool
}

// FieldTagRange locates the patchable range for one field's struct tag: the
// tag literal's own byte range (including its backticks) if the field
// already has one, or a zero-length range positioned right after the
// field's type expression (an insertion point) if it doesn't.
func (f *File) FieldTagRange(d *Decl, fieldName string) (ByteRange, error) {
	genDecl, ok := d.Node.(*ast.GenDecl)
	if !ok {
		return ByteRange{}, fmt.Errorf("%s is not a type declaration", d.Name)
	}
	for _, spec := range genDecl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || ts.Name.Name != d.Name {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return ByteRange{}, fmt.Errorf("%s is not a struct", d.Name)
		}
		for _, fl := range st.Fields.List {
			for _, n := range fl.Names {
				if n.Name != fieldName {
					continue
				}
				if fl.Tag != nil {
					return declRange(f.FileSet.File(fl.Tag.Pos()), fl.Tag), nil
				}
				off := f.FileSet.File(fl.Type.End()).Offset(fl.Type.End())
				return ByteRange{Start: off, End: off}, nil
			}
		}
	}
	return ByteRange{}, fmt.Errorf("field %s not found on struct %s", fieldName, d.Name)
}

func exprString(src []byte, fset *token.FileSet, expr ast.Expr) string {
	start := fset.Position(expr.Pos()).Offset
	end := fset.Position(expr.End()).Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}
