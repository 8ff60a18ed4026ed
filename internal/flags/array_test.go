package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayFlags(t *testing.T) {
	var resources ArrayFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.VarP(&resources, "resource", "r", "")

	require.NoError(t, fs.Parse([]string{"-r", "msm", "--resource", "msw, msanalytic", "-r", ""}))
	assert.Equal(t, ArrayFlags{"msm", "msw", "msanalytic"}, resources)
	assert.Equal(t, "[msm,msw,msanalytic]", resources.String())
	assert.Equal(t, "stringArray", fs.Lookup("resource").Value.Type())
	assert.True(t, fs.Changed("resource"))
}
