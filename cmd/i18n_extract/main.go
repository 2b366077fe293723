// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract finds the translation keys the Go sources of this
// module look up through i18n.Catalog and reports those the reference
// document does not define.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/localesync/core/audit"
	"codeberg.org/pixivfe/localesync/core/document"
	"codeberg.org/pixivfe/localesync/core/tree"
)

type ref struct {
	file string
	line int
}

// extractor holds the shared state and context for AST analysis within a package.
type extractor struct {
	refs        map[string][]ref
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
}

func main() {
	localesDir := flag.String("locales-dir", "./locales", "directory holding the translation documents")
	reference := flag.String("reference", "en", "id of the reference document")
	flag.Parse()

	audit.SetDefaultLogger()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: true}, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	refs := extractRefs(pkgs, nearestGoModDir(wd), findI18nPkgPaths(pkgs))

	_, refPaths, err := document.NewCollection(*localesDir).LoadReference(*reference)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load reference document")
	}

	missing := undefinedKeys(refs, refPaths)

	log.Info().
		Int("used", len(refs)).
		Int("undefined", len(missing)).
		Msg("Scanned translation keys")

	if len(missing) == 0 {
		return
	}

	writeUndefined(os.Stdout, missing, refs)
	os.Exit(1)
}

// undefinedKeys returns the sorted keys of refs that reference does not hold.
func undefinedKeys(refs map[string][]ref, reference *tree.PathValues) []string {
	var out []string

	for k := range refs {
		if !reference.Has(k) {
			out = append(out, k)
		}
	}

	sort.Strings(out)

	return out
}

// writeUndefined prints one line per key followed by its sorted, deduplicated references.
func writeUndefined(w io.Writer, keys []string, refs map[string][]ref) {
	for _, k := range keys {
		rs := refs[k]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].file != rs[j].file {
				return rs[i].file < rs[j].file
			}

			return rs[i].line < rs[j].line
		})

		fmt.Fprintf(w, "%s:", k)

		var last ref
		for _, r := range rs {
			if r != last {
				fmt.Fprintf(w, " %s:%d", r.file, r.line)

				last = r
			}
		}

		fmt.Fprintln(w)
	}
}

// extractRefs traverses all Go source files in the given packages,
// looking for catalogue lookups with a constant key.
func extractRefs(pkgs []*packages.Package, projectRoot string, i18nPkgPaths map[string]struct{}) map[string][]ref {
	refs := map[string][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:        refs,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgPaths,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				if x, ok := n.(*ast.CallExpr); ok {
					e.handleCallExpr(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the set of package paths in this build that
// define the i18n package with a Catalog type.
// This lets us require that matched Tr/Has calls come from our i18n package,
// regardless of how it is imported or aliased.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "i18n" || p.Types == nil {
			return
		}

		if _, ok := p.Types.Scope().Lookup("Catalog").(*types.TypeName); ok {
			out[p.PkgPath] = struct{}{}
		}
	})

	return out
}

// constString evaluates expr to a constant string if possible using types.Info.
// Handles string literals, const identifiers, and constant expressions like "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// handleCallExpr records the key of cat.Tr(lang, key, ...) and cat.Has(lang, key).
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}

	fn, ok := e.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return
	}

	if _, ok := e.i18nPkgs[fn.Pkg().Path()]; !ok {
		return
	}

	if fn.Name() != "Tr" && fn.Name() != "Has" {
		return
	}

	if len(x.Args) < 2 {
		return
	}

	if key, ok := constString(e.info, x.Args[1]); ok {
		e.addRef(x.Args[1].Pos(), key)
	}
}

// addRef records a reference to a key, normalising the file path relative
// to the computed project root.
func (e *extractor) addRef(pos token.Pos, key string) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
		file = rel
	}

	e.refs[key] = append(e.refs[key], ref{file: filepath.ToSlash(file), line: p.Line})
}

// nearestGoModDir returns the closest parent of start holding a go.mod, or start itself.
func nearestGoModDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}

		dir = parent
	}
}
