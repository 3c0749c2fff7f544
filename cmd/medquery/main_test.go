package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "info", "")
	for name, value := range args {
		set.String(name, value, "")
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			ctx := newContext(t, nil)
			require.NoError(t, ctx.Set("log-level", level))
			assert.NoError(t, setupLogger(ctx), level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		ctx := newContext(t, nil)
		require.NoError(t, ctx.Set("log-level", "verbose"))
		err := setupLogger(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestQuestionArg(t *testing.T) {
	t.Run("joins argument words", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		require.NoError(t, set.Parse([]string{"why", "do", "my", "hands", "shake"}))
		ctx := cli.NewContext(cli.NewApp(), set, nil)

		question, err := questionArg(ctx)
		require.NoError(t, err)
		assert.Equal(t, "why do my hands shake", question)
	})

	t.Run("requires a question", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)

		_, err := questionArg(ctx)
		assert.Error(t, err)
	})
}

func TestMapCommandFlags(t *testing.T) {
	flags := append(pipelineFlags(), mappingFlags()...)

	var minConfidence *cli.Float64Flag
	for _, f := range flags {
		if ff, ok := f.(*cli.Float64Flag); ok && ff.Name == "min-confidence" {
			minConfidence = ff
		}
	}
	require.NotNil(t, minConfidence)
	assert.Equal(t, 0.3, minConfidence.Value)
}
