// Package source installs the go-json driver as the process-wide default.
// Import it for its side effect:
//
//	import _ "github.com/reoring/audience/source"
package source

import (
	audience "github.com/reoring/audience"
	drvgojson "github.com/reoring/audience/source/gojson"
)

// init lives outside the root package to avoid an import cycle.
func init() { audience.SetJSONDriver(drvgojson.Driver()) }
