// cmd/shellgen/main.go
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// This binary scaffolds a shell script.
//
// Key behaviors:
// - Reads the script name and its dependency types from flags
// - Derives a field per dependency and emits Dependencies/Inject in the same order
// - Resolves the package qualifiers used by dependency types from -import flags,
//   the owner file's imports, then the goshell packages
// - Writes gofmt'ed output atomically and refuses to overwrite without -force

// defaultModule is the import path prefix of the goshell packages.
const defaultModule = "github.com/j-stam/goshell"

// goshellPackages are resolvable by qualifier without an -import flag.
var goshellPackages = []string{"args", "config", "console", "di", "fileio", "hostapp", "logging", "shell", "store"}

// Dep is one injected service.
type Dep struct {
	// Field receives the service on the script struct.
	Field string

	// Type is the Go type expression, e.g. *hostapp.ProductRepository.
	Type string
}

// ImportSpec models one Go import: optional alias and full import path.
type ImportSpec struct {
	Alias string
	Path  string
}

// ident is the name the import is referred to by in code.
func (i ImportSpec) ident() string {
	if i.Alias != "" {
		return i.Alias
	}
	return path.Base(i.Path)
}

// Spec is everything the template needs.
type Spec struct {
	Package  string
	Name     string
	Usage    string
	AreaCode string
	Main     bool
	Deps     []Dep
	Imports  []ImportSpec
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// run executes the generator and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("shellgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var deps, imports multiFlag
	name := flags.String("name", "", "script type name, e.g. ProductExport")
	outPath := flags.String("out", "", "output .go file path")
	pkg := flags.String("package", "main", "package of the generated file")
	usage := flags.String("usage", "", "help text returned by Usage()")
	area := flags.String("area", "", "application area returned by AreaCode()")
	module := flags.String("module", defaultModule, "import path prefix of the goshell packages")
	force := flags.Bool("force", false, "overwrite an existing output file")
	flags.Var(&deps, "dep", "dependency as Type or field=Type (repeatable)")
	flags.Var(&imports, "import", "extra import as path or alias=path (repeatable)")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: shellgen -name <Type> -out <file.go> [-dep <Type>]... [-import <path>]...")
		return 2
	}

	target := filepath.Clean(*outPath)
	if !*force {
		if _, err := os.Stat(target); err == nil {
			_, _ = fmt.Fprintf(stderr, "shellgen: %s exists (use -force to overwrite)\n", target)
			return 1
		}
	}

	spec, err := buildSpec(*pkg, *name, *usage, *area, *module, deps, imports, filepath.Dir(target))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "shellgen:", err)
		return 1
	}

	src, err := render(spec)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "shellgen:", err)
		return 1
	}
	if err := writeFileAtomic(target, src, 0o644); err != nil {
		_, _ = fmt.Fprintln(stderr, "shellgen:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// buildSpec validates the flags and resolves every import the output needs.
func buildSpec(pkg, name, usage, area, module string, rawDeps, rawImports []string, dir string) (Spec, error) {
	if !token.IsIdentifier(pkg) {
		return Spec{}, fmt.Errorf("invalid package name %q", pkg)
	}
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return Spec{}, fmt.Errorf("script name %q must be an exported identifier", name)
	}

	spec := Spec{Package: pkg, Name: name, Usage: usage, AreaCode: area, Main: pkg == "main"}

	seen := make(map[string]struct{}, len(rawDeps))
	for _, raw := range rawDeps {
		dep, err := parseDep(raw)
		if err != nil {
			return Spec{}, err
		}
		if _, ok := seen[dep.Field]; ok {
			return Spec{}, fmt.Errorf("duplicate dep field: %s", dep.Field)
		}
		seen[dep.Field] = struct{}{}
		spec.Deps = append(spec.Deps, dep)
	}

	candidates := make([]ImportSpec, 0, len(rawImports)+len(goshellPackages))
	for _, raw := range rawImports {
		candidates = append(candidates, parseImport(raw))
	}
	if owner, err := findOwnerFile(dir); err == nil {
		if ownerImports, err := readImportsFromFile(owner); err == nil {
			candidates = append(candidates, ownerImports...)
		}
	}
	for _, p := range goshellPackages {
		candidates = append(candidates, ImportSpec{Path: module + "/" + p})
	}

	required := []string{"context", "di", "shell"}
	if spec.Main {
		required = append(required, "os")
	}
	for _, dep := range spec.Deps {
		qualifiers, err := typeQualifiers(dep.Type)
		if err != nil {
			return Spec{}, err
		}
		required = append(required, qualifiers...)
	}

	for _, ident := range required {
		if ident == "context" || ident == "os" {
			ensureImport(&spec.Imports, ImportSpec{Path: ident})
			continue
		}
		imp, ok := lookupImport(candidates, ident)
		if !ok {
			return Spec{}, fmt.Errorf("no import found for package qualifier %q (add -import)", ident)
		}
		ensureImport(&spec.Imports, imp)
	}
	sort.Slice(spec.Imports, func(i, j int) bool { return spec.Imports[i].Path < spec.Imports[j].Path })
	return spec, nil
}

// parseDep accepts "Type" or "field=Type".
func parseDep(raw string) (Dep, error) {
	raw = strings.TrimSpace(raw)
	field, typ, ok := strings.Cut(raw, "=")
	if !ok {
		typ, field = raw, fieldName(raw)
	}
	field, typ = strings.TrimSpace(field), strings.TrimSpace(typ)

	if typ == "" {
		return Dep{}, fmt.Errorf("empty dep type in %q", raw)
	}
	if _, err := parser.ParseExpr(typ); err != nil {
		return Dep{}, fmt.Errorf("dep %q: %w", raw, err)
	}
	if !token.IsIdentifier(field) {
		return Dep{}, fmt.Errorf("dep %q: invalid field name %q", raw, field)
	}
	return Dep{Field: field, Type: typ}, nil
}

// fieldName derives a field from a type: *hostapp.ProductRepository becomes productRepository.
func fieldName(typ string) string {
	name := strings.TrimLeft(typ, "*[]")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	rs := []rune(name)
	for i := 0; i < len(rs) && unicode.IsUpper(rs[i]); i++ {
		if i > 0 && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
			break
		}
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}

// typeQualifiers returns the package identifiers a type expression refers to.
func typeQualifiers(typ string) ([]string, error) {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return nil, err
	}
	var out []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			out = append(out, id.Name)
		}
		return false
	})
	return out, nil
}

// parseImport accepts "path" or "alias=path".
func parseImport(raw string) ImportSpec {
	if alias, p, ok := strings.Cut(raw, "="); ok {
		return ImportSpec{Alias: strings.TrimSpace(alias), Path: strings.TrimSpace(p)}
	}
	return ImportSpec{Path: strings.TrimSpace(raw)}
}

func lookupImport(candidates []ImportSpec, ident string) (ImportSpec, bool) {
	for _, c := range candidates {
		if c.ident() == ident {
			return c, true
		}
	}
	return ImportSpec{}, false
}

func ensureImport(imports *[]ImportSpec, required ImportSpec) {
	for _, existing := range *imports {
		if existing.Path == required.Path {
			return
		}
	}
	*imports = append(*imports, required)
}

// findOwnerFile finds the Go file in dir whose go:generate directive invokes shellgen.
func findOwnerFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		p := filepath.Join(dir, name)
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if bytes.Contains(b, []byte("go:generate")) && bytes.Contains(b, []byte("shellgen")) {
			return p, nil
		}
	}
	return "", errors.New("no file with a shellgen go:generate directive in " + strconv.Quote(dir))
}

// readImportsFromFile parses imports from a Go file.
func readImportsFromFile(goFilePath string) ([]ImportSpec, error) {
	f, err := parser.ParseFile(token.NewFileSet(), goFilePath, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	imports := make([]ImportSpec, 0, len(f.Imports))
	for _, decl := range f.Imports {
		imp := ImportSpec{Path: strings.Trim(decl.Path.Value, `"`)}
		if decl.Name != nil {
			imp.Alias = decl.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

// render executes the template and gofmts the result.
func render(spec Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, spec); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

var scriptTemplate = template.Must(template.New("script").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Scaffolded by shellgen. This file is yours to edit; shellgen -force overwrites it.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Name}} is a shell script.
type {{.Name}} struct {
{{- range .Deps}}
	{{.Field}} {{.Type}}
{{- end}}
}

// Dependencies lists the services Inject receives, in order.
func (s *{{.Name}}) Dependencies() []di.TypeID {
	return []di.TypeID{
{{- range .Deps}}
		di.TypeOf[{{.Type}}](),
{{- end}}
	}
}

{{if .Deps}}
// Inject stores the resolved services.
func (s *{{.Name}}) Inject(deps di.Resolved) error {
	var err error
{{- range $i, $d := .Deps}}
	if s.{{$d.Field}}, err = di.As[{{$d.Type}}](deps, {{$i}}); err != nil {
		return err
	}
{{- end}}
	return nil
}
{{else}}
// Inject stores the resolved services.
func (s *{{.Name}}) Inject(di.Resolved) error { return nil }
{{end}}
{{- if .Usage}}

// Usage is printed for -h, --help and help.
func (s *{{.Name}}) Usage() string { return {{quote .Usage}} }
{{- end}}
{{- if .AreaCode}}

// AreaCode is the application area the script runs in.
func (s *{{.Name}}) AreaCode() string { return {{quote .AreaCode}} }
{{- end}}

// Run is the script body.
func (s *{{.Name}}) Run(ctx context.Context, sh *shell.Shell) error {
	sh.Writeln("<info>{{.Name}}</info>")
	return ctx.Err()
}
{{- if .Main}}

func main() {
	os.Exit(shell.Main(&{{.Name}}{}))
}
{{- end}}
`))

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over targetPath.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmp, err := createTempFile(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
