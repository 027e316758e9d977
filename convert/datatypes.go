package convert

import "strings"

// XSD is the XML Schema datatype namespace.
const XSD = "http://www.w3.org/2001/XMLSchema#"

// primitives maps builtin attribute type names, lower-cased, to XSD datatypes.
var primitives = map[string]string{
	"string":   XSD + "string",
	"char":     XSD + "string",
	"boolean":  XSD + "boolean",
	"bool":     XSD + "boolean",
	"int":      XSD + "int",
	"integer":  XSD + "integer",
	"long":     XSD + "long",
	"short":    XSD + "short",
	"byte":     XSD + "byte",
	"float":    XSD + "float",
	"double":   XSD + "double",
	"decimal":  XSD + "decimal",
	"date":     XSD + "date",
	"datetime": XSD + "dateTime",
	"time":     XSD + "time",
	"duration": XSD + "duration",
	"anyuri":   XSD + "anyURI",
	"uri":      XSD + "anyURI",
}

// Primitive returns the XSD datatype of a builtin type name.
func Primitive(name string) (string, bool) {
	iri, ok := primitives[strings.ToLower(strings.TrimSpace(name))]
	return iri, ok
}

// IsXSD reports whether iri lies in the XSD namespace.
func IsXSD(iri string) bool {
	return strings.HasPrefix(iri, XSD)
}
