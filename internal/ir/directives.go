package ir

import "strings"

// ParseMethodDirective extracts a method's bare name, parameter type list,
// and return type from a `.method` directive line, e.g.
//
//	.method public final onCreate(Landroid/os/Bundle;)V
//
// The trailing whitespace-delimited token carries `name(params)return`;
// params are further split on `;`. Forms are preserved verbatim for later
// equality comparison — no canonicalization.
func ParseMethodDirective(directive string) (name string, paramTypes []string, returnType string) {
	fields := strings.Fields(directive)
	nameParamsReturn := fields[len(fields)-1]

	open := strings.IndexByte(nameParamsReturn, '(')
	shut := strings.IndexByte(nameParamsReturn, ')')
	if open < 0 || shut < 0 || shut < open {
		return nameParamsReturn, nil, ""
	}
	name = nameParamsReturn[:open]
	params := nameParamsReturn[open+1 : shut]
	returnType = nameParamsReturn[shut+1:]
	paramTypes = strings.Split(params, ";")
	return name, paramTypes, returnType
}

// ParseClassHeader extracts a class's short name and slash-delimited path
// from a `.class` directive line, e.g.
//
//	.class public Lcom/example/app/Foo;
func ParseClassHeader(header string) (name, path string) {
	fields := strings.Fields(header)
	token := fields[len(fields)-1]
	segments := strings.Split(token, "/")
	name = strings.ReplaceAll(segments[len(segments)-1], ";", "")
	path = strings.Join(segments[:len(segments)-1], "/")
	return name, path
}

// SameParams reports whether two parameter type lists, as produced by
// ParseMethodDirective, are identical term-for-term. Used to match a
// synthesized library/invocation signature against a method's own.
func SameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
