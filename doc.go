// Package umlsem converts annotated UML models into RDF vocabularies.
//
// Model objects carry tags (baseURI, uri, name, label-nl, ...) that control
// the IRIs they receive and the literals attached to them. Each diagram is
// converted into one ontology: the objects drawn on it are emitted either as
// full definitions or as translations of terms defined elsewhere.
//
// The module is organized into these packages:
//
//   - [github.com/CaliLuke/go-umlsem/model]: model graph and its text format
//   - [github.com/CaliLuke/go-umlsem/tags]: tag lookup and literal resolution
//   - [github.com/CaliLuke/go-umlsem/relnorm]: relationship normalization
//   - [github.com/CaliLuke/go-umlsem/identity]: IRI assignment and collision checks
//   - [github.com/CaliLuke/go-umlsem/convert]: per-diagram conversion into handler events
//   - [github.com/CaliLuke/go-umlsem/sink]: N-Quads, SQLite, and msgpack handlers
//   - [github.com/CaliLuke/go-umlsem/config]: TOML and YAML settings
//
// The umlsem command in cmd/umlsem ties them together.
package umlsem
