// Package content holds the lesson modules shipped with the binary, one YAML
// file per module (modules/module_NN.yaml).
package content

import "embed"

// FS contains the modules directory.
//
//go:embed modules/*.yaml
var FS embed.FS

// Dir is the directory inside FS that holds module files.
const Dir = "modules"
