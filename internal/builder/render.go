// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"go/ast"
	"go/doc"
	"go/types"
	"sort"
	"strings"
)

// renderPackage flattens a documented package into the wire document. Every
// exported declaration becomes one item: types, their methods and fields,
// functions, constants and variables.
func renderPackage(docPkg *doc.Package, modPath, importPath string) Document {
	r := &renderer{
		pkgName:  docPkg.Name,
		declared: map[string]bool{},
		refs:     map[string]string{},
	}

	// First pass: register exported type names so signature tokens can
	// carry refs to them.
	for _, t := range docPkg.Types {
		if ast.IsExported(t.Name) {
			path := r.pkgName + "." + t.Name
			r.declared[t.Name] = true
			r.refs[path] = path
		}
	}

	for _, v := range docPkg.Consts {
		r.values("const ", "", v)
	}
	for _, v := range docPkg.Vars {
		r.values("var ", "", v)
	}
	for _, f := range docPkg.Funcs {
		r.function(f)
	}
	for _, t := range docPkg.Types {
		r.typeDecl(t)
	}

	sort.SliceStable(r.items, func(one, two int) bool {
		if r.items[one].Path != r.items[two].Path {
			return r.items[one].Path < r.items[two].Path
		}
		renderedOne := r.items[one].Prefix + r.items[one].Path + r.items[one].Suffix
		renderedTwo := r.items[two].Prefix + r.items[two].Path + r.items[two].Suffix
		return renderedOne < renderedTwo
	})

	return Document{
		FormatVersion: FormatVersion,
		Module:        modPath,
		Package:       PackageInfo{Name: docPkg.Name, ImportPath: importPath},
		Refs:          r.refs,
		Items:         r.items,
	}
}

type renderer struct {
	pkgName  string
	declared map[string]bool
	refs     map[string]string
	items    []DocItem
}

func (r *renderer) add(prefix, path, suffix string) {
	r.items = append(r.items, DocItem{
		Prefix: prefix,
		Path:   path,
		Suffix: suffix,
		Tokens: r.tokenize(prefix, path, suffix),
	})
}

// values renders const and var declarations, one item per exported name.
func (r *renderer) values(prefix, owner string, v *doc.Value) {
	for _, spec := range v.Decl.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		suffix := ""
		if vs.Type != nil {
			suffix = " " + types.ExprString(vs.Type)
		}
		for _, name := range vs.Names {
			if !ast.IsExported(name.Name) {
				continue
			}
			path := r.pkgName + "." + name.Name
			if owner != "" {
				path = r.pkgName + "." + owner + "." + name.Name
			}
			r.add(prefix, path, suffix)
		}
	}
}

func (r *renderer) function(f *doc.Func) {
	if !ast.IsExported(f.Name) {
		return
	}
	r.add("func ", r.pkgName+"."+f.Name, signatureSuffix(f.Decl.Type))
}

func (r *renderer) method(owner string, f *doc.Func) {
	if !ast.IsExported(f.Name) {
		return
	}
	recv := ""
	if f.Decl.Recv != nil && len(f.Decl.Recv.List) == 1 {
		recv = types.ExprString(f.Decl.Recv.List[0].Type)
	}
	r.add("func ("+recv+") ", r.pkgName+"."+owner+"."+f.Name, signatureSuffix(f.Decl.Type))
}

func (r *renderer) typeDecl(t *doc.Type) {
	if !ast.IsExported(t.Name) {
		return
	}

	path := r.pkgName + "." + t.Name

	spec := typeSpec(t)
	switch {
	case spec == nil:
		r.add("type ", path, "")
	case spec.Assign.IsValid():
		r.add("type ", path, " = "+types.ExprString(spec.Type))
	default:
		switch underlying := spec.Type.(type) {
		case *ast.StructType:
			r.add("type ", path, " struct")
			r.structFields(t.Name, underlying)
		case *ast.InterfaceType:
			r.add("type ", path, " interface")
			r.interfaceMembers(t.Name, underlying)
		default:
			r.add("type ", path, " "+types.ExprString(spec.Type))
		}
	}

	for _, v := range t.Consts {
		r.values("const ", "", v)
	}
	for _, v := range t.Vars {
		r.values("var ", "", v)
	}
	for _, f := range t.Funcs {
		r.function(f)
	}
	for _, m := range t.Methods {
		r.method(t.Name, m)
	}
}

func (r *renderer) structFields(owner string, st *ast.StructType) {
	if st.Fields == nil {
		return
	}
	for _, field := range st.Fields.List {
		text := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			// Embedded field; its name is the base type name.
			name := embeddedName(field.Type)
			if name != "" && ast.IsExported(name) {
				r.add("", r.pkgName+"."+owner+"."+name, " "+text)
			}
			continue
		}
		for _, name := range field.Names {
			if ast.IsExported(name.Name) {
				r.add("", r.pkgName+"."+owner+"."+name.Name, " "+text)
			}
		}
	}
}

func (r *renderer) interfaceMembers(owner string, it *ast.InterfaceType) {
	if it.Methods == nil {
		return
	}
	for _, member := range it.Methods.List {
		if len(member.Names) == 0 {
			// Embedded interface.
			name := embeddedName(member.Type)
			if name != "" && ast.IsExported(name) {
				r.add("", r.pkgName+"."+owner+"."+name, " "+types.ExprString(member.Type))
			}
			continue
		}
		ft, ok := member.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		for _, name := range member.Names {
			if ast.IsExported(name.Name) {
				r.add("func ", r.pkgName+"."+owner+"."+name.Name, signatureSuffix(ft))
			}
		}
	}
}

func typeSpec(t *doc.Type) *ast.TypeSpec {
	if t.Decl == nil {
		return nil
	}
	for _, spec := range t.Decl.Specs {
		if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Name == t.Name {
			return ts
		}
	}
	return nil
}

// embeddedName returns the base identifier of an embedded field type,
// unwrapping pointers and qualified names.
func embeddedName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.StarExpr:
		return embeddedName(x.X)
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(x.X)
	case *ast.IndexListExpr:
		return embeddedName(x.X)
	}
	return ""
}

// signatureSuffix renders the parameter and result lists of a function type.
func signatureSuffix(ft *ast.FuncType) string {
	var b strings.Builder

	b.WriteString("(")
	b.WriteString(fieldList(ft.Params))
	b.WriteString(")")

	if ft.Results == nil || len(ft.Results.List) == 0 {
		return b.String()
	}

	results := fieldList(ft.Results)
	if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
		b.WriteString(" ")
		b.WriteString(results)
	} else {
		b.WriteString(" (")
		b.WriteString(results)
		b.WriteString(")")
	}

	return b.String()
}

func fieldList(fl *ast.FieldList) string {
	if fl == nil {
		return ""
	}
	var parts []string
	for _, field := range fl.List {
		text := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, text)
			continue
		}
		names := make([]string, 0, len(field.Names))
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
		parts = append(parts, strings.Join(names, ", ")+" "+text)
	}
	return strings.Join(parts, ", ")
}
