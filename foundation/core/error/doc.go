// Package error provides the structured error type used by the ForSure
// packages and tools.
//
// Errors are created with New or Wrap and enriched with chained setters:
//
//	err := fserr.Wrap(ioErr, "failed to write file").
//		WithCode(fserr.CodeMaterializeFailed).
//		WithOperation("materializer.writeFile").
//		WithDetail("path", path)
//
// Codes are grouped into categories (document, filesystem, database,
// configuration); the severity defaults from the code. HasCode and GetCode
// walk the wrap chain, and errors.Is matches on codes.
package error
