// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements container.Runtime for testing.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string
	stdin    string
	image    string
	runs     int
}

func (f *fakeRuntime) Name() string { return "fake" }
func (f *fakeRuntime) Available(_ context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	f.image = image
	return f.imageErr
}

func (f *fakeRuntime) Run(_ context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	f.runs++
	f.image = image
	data, _ := io.ReadAll(stdin)
	f.stdin = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestNewMarkitdownConverter(t *testing.T) {
	rt := &fakeRuntime{}
	mc, err := NewMarkitdownConverter(context.Background(), rt, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultMarkitdownImage, rt.image)
	assert.Equal(t, DefaultMarkitdownImage, mc.image)

	_, err = NewMarkitdownConverter(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")}, "custom:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available in fake")
}

func TestMarkitdownConvertDocument(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{output: "# Converted\n\n## Abstract\n\nbody"}
	mc, err := NewMarkitdownConverter(ctx, rt, "markitdown:test")
	require.NoError(t, err)

	out, err := mc.ConvertDocument(ctx, []byte("%PDF-1.7"), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, rt.output, out)
	assert.Equal(t, "%PDF-1.7", rt.stdin)
	assert.Equal(t, "markitdown:test", rt.image)

	out, err = mc.ConvertDocument(ctx, []byte("# Already markdown"), FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "# Already markdown", out)
	assert.Equal(t, 1, rt.runs, "markdown input must not reach the container")

	rt.runErr = errors.New("exit status 1")
	_, err = mc.ConvertDocument(ctx, []byte("<html></html>"), FormatHTML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "converting with markitdown")
}
