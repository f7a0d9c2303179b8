package model

// Path represents a file system path.
type Path string

// Grammar names the language a source file is written in.
type Grammar string

// Known grammars.
const (
	GrammarGo          Grammar = "go"
	GrammarCSharp      Grammar = "csharp"
	GrammarJava        Grammar = "java"
	GrammarJavaScript  Grammar = "javascript"
	GrammarPython      Grammar = "python"
	GrammarVisualBasic Grammar = "visualbasic"
)

// File represents a source code file.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
}

// Source is a discovered file together with its grammar.
type Source struct {
	Origin  *File
	Grammar Grammar
}
