package model

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- Participle grammar structs ---
// A model file holds one root package. Packages nest, and contain tags,
// elements, relationships, and diagrams in any order.

// FileDef is the top-level grammar: exactly one root package.
type FileDef struct {
	Root *PackageDef `parser:"@@"`
}

// PackageDef parses: package name [guid "..."] { item* }
type PackageDef struct {
	Name  string         `parser:"'package' @(String | Ident)"`
	GUID  string         `parser:"('guid' @String)?"`
	Items []*PackageItem `parser:"'{' @@* '}'"`
}

// PackageItem is one of: tag, package, element, relationship, or diagram.
type PackageItem struct {
	Tag          *TagDef          `parser:"  @@"`
	Package      *PackageDef      `parser:"| @@"`
	Element      *ElementDef      `parser:"| @@"`
	Relationship *RelationshipDef `parser:"| @@"`
	Diagram      *DiagramDef      `parser:"| @@"`
}

// TagDef parses: tag key = "value" [note "..."]
type TagDef struct {
	Key   string `parser:"'tag' @(Ident | String) '='"`
	Value string `parser:"@String"`
	Note  string `parser:"('note' @String)?"`
}

// ElementDef parses: class|enumeration|datatype name [guid "..."] [notes "..."] [{ ... }]
type ElementDef struct {
	Kind  string         `parser:"@('class' | 'enumeration' | 'datatype')"`
	Name  string         `parser:"@(Ident | String)"`
	GUID  string         `parser:"('guid' @String)?"`
	Notes string         `parser:"('notes' @String)?"`
	Items []*ElementItem `parser:"('{' @@* '}')?"`
}

// ElementItem is one of: tag or attribute.
type ElementItem struct {
	Tag       *TagDef       `parser:"  @@"`
	Attribute *AttributeDef `parser:"| @@"`
}

// AttributeDef parses: attribute|literal name [: Type] ["card"] [guid "..."] [{ tag* }]
type AttributeDef struct {
	Name string    `parser:"('attribute' | 'literal') @(Ident | String)"`
	Type string    `parser:"(':' @(Ident | String))?"`
	Card string    `parser:"('[' @String ']')?"`
	GUID string    `parser:"('guid' @String)?"`
	Tags []*TagDef `parser:"('{' @@* '}')?"`
}

// RelationshipDef parses: association|aggregation|generalization ["name"] From -> To option* [{ tag* }]
type RelationshipDef struct {
	Kind        string       `parser:"@('association' | 'aggregation' | 'generalization')"`
	Name        string       `parser:"@String?"`
	Source      string       `parser:"@Ident '->'"`
	Destination string       `parser:"@Ident"`
	Options     []*RelOption `parser:"@@*"`
	Tags        []*TagDef    `parser:"('{' @@* '}')?"`
}

// RelOption is one relationship modifier.
type RelOption struct {
	GUID      string   `parser:"  'guid' @String"`
	Direction string   `parser:"| 'dir' @('none' | 'forward' | 'both' | 'reverse')"`
	Roles     *PairDef `parser:"| 'roles' @@"`
	Cards     *PairDef `parser:"| 'cards' @@"`
	Anchor    string   `parser:"| 'anchor' @Ident"`
	Notes     string   `parser:"| 'notes' @String"`
}

// PairDef parses two strings: the source side then the destination side.
type PairDef struct {
	Source      string `parser:"@String"`
	Destination string `parser:"@String"`
}

// DiagramDef parses: diagram name [guid "..."] { show ... link ... }
type DiagramDef struct {
	Name  string         `parser:"'diagram' @(String | Ident)"`
	GUID  string         `parser:"('guid' @String)?"`
	Items []*DiagramItem `parser:"'{' @@* '}'"`
}

// DiagramItem is one of: show or link.
type DiagramItem struct {
	Show *ShowDef `parser:"  @@"`
	Link *LinkDef `parser:"| @@"`
}

// ShowDef parses: show Elem [at "l,t,r,b"] (, Elem [at ...])*
type ShowDef struct {
	Objects []*ShowObject `parser:"'show' @@ (',' @@)*"`
}

// ShowObject is one element reference with optional geometry.
type ShowObject struct {
	Element string `parser:"@Ident"`
	Bounds  string `parser:"('at' @String)?"`
}

// LinkDef parses: link "name|guid|From->To" [label dir] [hidden]
type LinkDef struct {
	Ref    string `parser:"'link' @(String | Ident)"`
	Label  string `parser:"('label' @('none' | 'forward' | 'both' | 'reverse'))?"`
	Hidden bool   `parser:"@'hidden'?"`
}

var modelLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Arrow", Pattern: `->`},
	// A '-' inside an identifier must be followed by a word character, so
	// "A->B" lexes as Ident Arrow Ident.
	{Name: "Ident", Pattern: `[a-zA-Z_](?:[a-zA-Z0-9_]|-[a-zA-Z0-9_])*(?:\.[a-zA-Z_](?:[a-zA-Z0-9_]|-[a-zA-Z0-9_])*)*`},
	{Name: "Punct", Pattern: `[{}:,=\[\]]`},
})

var modelParser = participle.MustBuild[FileDef](
	participle.Lexer(modelLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(3),
)

// Parse parses a model file and resolves every cross reference into a Model.
func Parse(filename, input string) (*Model, error) {
	file, err := modelParser.ParseString(filename, input)
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if file.Root == nil {
		return nil, &ResolveError{Kind: "package", Ref: "root", Context: filename}
	}
	return build(file)
}

// ParseFile reads the model file at path and parses it.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(path, string(data))
}
