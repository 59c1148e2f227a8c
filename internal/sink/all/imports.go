// Package all wires every built-in sink backend into the sink factory.
//
// This package exists purely for side effects: a blank import runs the init
// functions of each concrete backend, which register their factories with the
// sink package. Importing it makes the following sink kinds available:
//
//   - "csv"    (csvtransform/internal/sink/csvfile)
//   - "sqlite" (csvtransform/internal/sink/sqlite)
//
// A binary that should support only a subset of backends can import the
// specific backend packages instead.
package all

import (
	_ "csvtransform/internal/sink/csvfile"
	_ "csvtransform/internal/sink/sqlite"
)
