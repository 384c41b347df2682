//go:build !cgo

package analyzer

// The tree-sitter grammars need cgo. Without it only Go files are
// analyzed and JavaScript or TypeScript files report ErrUnsupported.
func registerECMAScript(*Registry) {}
