// Command shellgen scaffolds a goshell script.
//
// It writes a struct with one field per dependency plus the Dependencies and
// Inject pair the shell resolves before Run:
//
//	shellgen -name ProductExport \
//		-dep '*hostapp.ProductRepository' \
//		-dep 'io=*fileio.IO' \
//		-usage 'Usage:  export --format csv|json|xml --file <path>' \
//		-out ./export_script.go
//
// A dependency is a Go type expression, optionally prefixed with the field
// name (field=Type). Without one the field is derived from the type name, so
// *hostapp.ProductRepository lands in productRepository.
//
// Package qualifiers in dependency types are resolved in this order:
//
//   - -import flags (path or alias=path)
//   - imports of the file in the output directory whose go:generate
//     directive invokes shellgen
//   - the goshell packages under -module
//
// The generated file is meant to be edited. shellgen refuses to overwrite an
// existing file unless -force is given.
//
// Typical go:generate usage:
//
//	//go:generate go run ../../cmd/shellgen -name ProductExport -dep *hostapp.ProductRepository -out ./export_script.go
package main
