// Package source switches the default JSON driver to go-json when imported:
//
//	import _ "github.com/reoring/jsonguard/source"
package source

import (
	"github.com/reoring/jsonguard"
	drvgojson "github.com/reoring/jsonguard/source/gojson"
)

// init lives in a separate package to avoid an import cycle in the root.
func init() { jsonguard.SetJSONDriver(drvgojson.Driver()) }
