// Package args turns a raw process argument vector into the option set a shell
// script reads its switches from.
//
// The grammar is deliberately tiny and never fails:
//
//	--name [value]   long flag, name is one or more of [A-Za-z0-9_-]
//	-name [value]    short flag, name is one or more of [A-Za-z0-9_]
//	name             bare flag, when it is not consumed as a value
//
// A flag is stored as true until the next token supplies a value. Any other
// token is dropped silently. The first element of the vector (the program
// path) is never parsed.
//
// Parse keeps one quirk of the scripts it grew out of: once a flag has consumed
// its value, a following bare identifier is recorded as a flag of its own
// rather than being ignored:
//
//	prog --file a.csv export   =>  {file: "a.csv", export: true}
//
// Import
//
//	"github.com/j-stam/goshell/args"
package args
