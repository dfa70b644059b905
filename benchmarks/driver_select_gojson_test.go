//go:build gojson

package benchmarks_test

import (
	jsonguard "github.com/reoring/jsonguard"
	drv "github.com/reoring/jsonguard/source/gojson"
)

func init() {
	jsonguard.SetJSONDriver(drv.Driver())
}
