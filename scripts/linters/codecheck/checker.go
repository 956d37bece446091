package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gear6io/mcwire/pkg/errors"
)

// Checker walks a source tree and validates error code declarations and usage.
type Checker struct {
	fileSet    *token.FileSet
	config     *Config
	forbidden  []*regexp.Regexp
	codes      map[string]*CodeInfo
	declared   map[token.Pos]bool
	localRefs  map[string]int
	qualRefs   map[string]int
	violations []Violation
}

// NewChecker compiles the forbidden patterns in config.
func NewChecker(config *Config) (*Checker, error) {
	c := &Checker{
		fileSet:   token.NewFileSet(),
		config:    config,
		codes:     make(map[string]*CodeInfo),
		declared:  make(map[token.Pos]bool),
		localRefs: make(map[string]int),
		qualRefs:  make(map[string]int),
	}
	for _, pattern := range config.ForbiddenPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid forbidden pattern %q: %w", pattern, err)
		}
		c.forbidden = append(c.forbidden, re)
	}
	return c, nil
}

func (c *Checker) debug(format string, args ...interface{}) {
	if c.config.Verbose {
		fmt.Printf(format, args...)
	}
}

func (c *Checker) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, exclude := range c.config.ExcludePaths {
		if strings.Contains(slashed, exclude) {
			return true
		}
	}
	return false
}

// CheckDirectory parses every Go file under dir that is not excluded.
func (c *Checker) CheckDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if rel != "." && c.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || c.excluded(rel) {
			return nil
		}
		return c.CheckFile(path)
	})
}

// CheckFile records declarations, references and forbidden patterns in one file.
func (c *Checker) CheckFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := parser.ParseFile(c.fileSet, path, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	c.debug("checking %s\n", path)

	dir := filepath.Dir(path)
	isTest := strings.HasSuffix(path, "_test.go")
	if !isTest {
		c.collectDeclarations(file, path, dir)
		c.checkForbidden(path, src)
	}
	c.collectReferences(file, dir)
	return nil
}

func (c *Checker) collectDeclarations(file *ast.File, path, dir string) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					break
				}
				value, ok := mustNewCodeArg(vs.Values[i])
				if !ok {
					continue
				}
				pos := c.fileSet.Position(name.Pos())
				c.declared[name.Pos()] = true
				info := &CodeInfo{
					Var:     name.Name,
					Value:   value,
					Package: file.Name.Name,
					Dir:     dir,
					File:    path,
					Line:    pos.Line,
				}
				c.codes[dir+":"+name.Name] = info

				if _, err := errors.NewCode(value); err != nil {
					c.report("invalid_code", path, pos.Line, err.Error())
				}
			}
		}
	}
}

// mustNewCodeArg returns the literal passed to MustNewCode or errors.MustNewCode.
func mustNewCodeArg(expr ast.Expr) (string, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		if fn.Name != "MustNewCode" {
			return "", false
		}
	case *ast.SelectorExpr:
		if fn.Sel.Name != "MustNewCode" {
			return "", false
		}
	default:
		return "", false
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// collectReferences counts bare identifiers per directory and qualified
// identifiers per package name. Import aliases are not resolved.
func (c *Checker) collectReferences(file *ast.File, dir string) {
	ast.Inspect(file, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.SelectorExpr:
			if pkg, ok := x.X.(*ast.Ident); ok {
				c.qualRefs[pkg.Name+"."+x.Sel.Name]++
				return false
			}
		case *ast.Ident:
			if !c.declared[x.Pos()] {
				c.localRefs[dir+":"+x.Name]++
			}
		}
		return true
	})
}

func (c *Checker) checkForbidden(path string, src []byte) {
	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		for _, re := range c.forbidden {
			if re.MatchString(line) {
				c.report("forbidden_pattern", path, i+1, fmt.Sprintf("%s matches %s", trimmed, re))
			}
		}
	}
}

func (c *Checker) report(rule, path string, line int, msg string) {
	c.violations = append(c.violations, Violation{Rule: rule, File: path, Line: line, Message: msg})
}

// Finish resolves cross-file rules once every file has been read.
func (c *Checker) Finish() {
	byValue := make(map[string][]*CodeInfo)
	prefixes := make(map[string]map[string]bool)
	for key, info := range c.codes {
		byValue[info.Value] = append(byValue[info.Value], info)

		if prefixes[info.Dir] == nil {
			prefixes[info.Dir] = make(map[string]bool)
		}
		if idx := strings.Index(info.Value, "."); idx > 0 {
			prefixes[info.Dir][info.Value[:idx]] = true
		}

		info.Uses = c.localRefs[key] + c.qualRefs[info.Package+"."+info.Var]
	}

	for value, infos := range byValue {
		if len(infos) < 2 {
			continue
		}
		sortCodes(infos)
		for _, info := range infos[1:] {
			c.report("duplicate_code", info.File, info.Line,
				fmt.Sprintf("%s reuses %q already declared at %s:%d", info.Var, value, infos[0].File, infos[0].Line))
		}
	}

	for dir, set := range prefixes {
		if len(set) < 2 {
			continue
		}
		var names []string
		for p := range set {
			names = append(names, p)
		}
		sort.Strings(names)
		c.report("mixed_prefix", dir, 0, "codes in one package use prefixes "+strings.Join(names, ", "))
	}

	sort.Slice(c.violations, func(i, j int) bool {
		if c.violations[i].File != c.violations[j].File {
			return c.violations[i].File < c.violations[j].File
		}
		return c.violations[i].Line < c.violations[j].Line
	})
}

// Unused returns codes never referenced outside their declaration.
func (c *Checker) Unused() []*CodeInfo {
	var unused []*CodeInfo
	for _, info := range c.codes {
		if info.Uses == 0 {
			unused = append(unused, info)
		}
	}
	sortCodes(unused)
	return unused
}

// Codes returns every declaration ordered by file and line.
func (c *Checker) Codes() []*CodeInfo {
	all := make([]*CodeInfo, 0, len(c.codes))
	for _, info := range c.codes {
		all = append(all, info)
	}
	sortCodes(all)
	return all
}

func (c *Checker) Violations() []Violation {
	return c.violations
}

func sortCodes(infos []*CodeInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].File != infos[j].File {
			return infos[i].File < infos[j].File
		}
		return infos[i].Line < infos[j].Line
	})
}
