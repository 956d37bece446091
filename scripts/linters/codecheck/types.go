package main

// CodeInfo describes one package-level MustNewCode declaration.
type CodeInfo struct {
	Var     string
	Value   string
	Package string
	Dir     string
	File    string
	Line    int
	Uses    int
}

// Violation is a single finding reported by the checker.
type Violation struct {
	Rule    string
	File    string
	Line    int
	Message string
}
