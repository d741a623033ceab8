package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// modulePath is the go.mod module path the context imports are rooted at.
const modulePath = "jobescrow"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule constrains what files under contexts/<context>/<service>/<layer>
// may import. Allowed entries are suffixes of the service prefix; a leading
// "!" marks a module-wide path instead.
type layerRule struct {
	name            string
	allowed         []string
	onlyAllowlisted bool
}

var layerRules = map[string]layerRule{
	"domain": {
		name:            "domain",
		allowed:         []string{"/domain"},
		onlyAllowlisted: true,
	},
	"application": {
		name:            "application",
		allowed:         []string{"/application", "/domain", "/ports"},
		onlyAllowlisted: true,
	},
	"ports": {
		name:            "ports",
		allowed:         []string{"/domain", "!" + modulePath + "/internal/shared"},
		onlyAllowlisted: true,
	},
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	violations := collectViolations(root)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, which must be laid out as
// <context>/<service>/<layer>/..., and returns violations sorted by position.
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		violations = append(violations, checkFile(path, parts[2], servicePrefix)...)
		return nil
	})

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations
}

func checkFile(path string, layer string, servicePrefix string) []violation {
	file := filepath.ToSlash(path)
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	rule, ruled := layerRules[layer]
	var violations []violation
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		report := func(reason string) {
			violations = append(violations, violation{
				File:   file,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   reason,
			})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			report("cross-module imports are forbidden")
		}
		if !ruled {
			continue
		}
		if strings.Contains(importPath, "/adapters/") {
			report(rule.name + " must not import adapters")
		}
		if rule.onlyAllowlisted && !isStdlib(importPath) && !rule.permits(importPath, servicePrefix) {
			report(rule.name + " import is outside explicit allowlist")
		}
	}
	return violations
}

func (r layerRule) permits(importPath string, servicePrefix string) bool {
	for _, entry := range r.allowed {
		prefix := servicePrefix + entry
		if strings.HasPrefix(entry, "!") {
			prefix = entry[1:]
		}
		if hasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
