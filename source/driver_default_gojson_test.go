package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	audience "github.com/reoring/audience"
	_ "github.com/reoring/audience/source"
)

func TestImportInstallsGoJSON(t *testing.T) {
	assert.Equal(t, "go-json", audience.CurrentJSONDriver().Name())

	audience.UseDefaultJSONDriver()
	assert.Equal(t, "encoding/json", audience.CurrentJSONDriver().Name())
}
