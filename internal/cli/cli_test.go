package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/easel"
)

const testScene = `
width: 40
height: 30
background: white
nodes:
  - kind: rect
    name: back
    width: 20
    height: 20
    fill: blue
  - kind: ellipse
    name: front
    x: 10
    y: 10
    width: 10
    height: 10
    fill: red
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "pick", writeScene(t, testScene), "1", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWrongArgCount(t *testing.T) {
	scene := writeScene(t, testScene)
	tests := []struct {
		name string
		args []string
	}{
		{"render none", []string{"render"}},
		{"pick missing y", []string{"pick", scene, "1"}},
		{"dataurl extra", []string{"dataurl", scene, "extra"}},
		{"view none", []string{"view"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestUnknownFlag(t *testing.T) {
	_, err := execute(t, "render", writeScene(t, testScene), "--colour", "red")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRenderWritesPNG(t *testing.T) {
	scene := writeScene(t, testScene)
	out := filepath.Join(t.TempDir(), "out.png")

	output, err := execute(t, "render", scene, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, output, "wrote "+out)
	assert.Contains(t, output, "image/png")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	// Background composited under the transparent area.
	r, g, b, a := img.At(35, 25).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
	_, _, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

func TestRenderTypeFromExtension(t *testing.T) {
	scene := writeScene(t, testScene)
	out := filepath.Join(t.TempDir(), "out.bmp")

	output, err := execute(t, "render", scene, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, output, "image/bmp")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("BM")))
}

func TestRenderDefaultOutput(t *testing.T) {
	scene := writeScene(t, testScene)

	output, err := execute(t, "--format", "json", "render", scene, "--type", "image/jpeg")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, easel.MimeJPEG, resp.Data.Type)
	assert.Equal(t, filepath.Join(filepath.Dir(scene), "scene.jpg"), resp.Data.Path)
	assert.FileExists(t, resp.Data.Path)
}

func TestRenderMissingScene(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderInvalidScene(t *testing.T) {
	_, err := execute(t, "render", writeScene(t, "width: 0\nheight: 1\n"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid scene")
}

func TestPickTopmost(t *testing.T) {
	output, err := execute(t, "pick", writeScene(t, testScene), "15", "15")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "front")
}

func TestPickAll(t *testing.T) {
	output, err := execute(t, "--format", "json", "pick", writeScene(t, testScene), "15", "15", "--all")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   PickResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data.Hits, 2)
	assert.Equal(t, "front", resp.Data.Hits[0].Name)
	assert.Equal(t, "back", resp.Data.Hits[1].Name)
	assert.NotZero(t, resp.Data.Hits[0].ID)
}

func TestPickNothing(t *testing.T) {
	output, err := execute(t, "pick", writeScene(t, testScene), "35", "25")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "nothing at (35, 25)")
}

func TestPickBadCoordinate(t *testing.T) {
	_, err := execute(t, "pick", writeScene(t, testScene), "x", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDataURL(t *testing.T) {
	output, err := execute(t, "dataurl", writeScene(t, testScene), "--type", "image/jpeg", "--background", "black")
	require.NoError(t, err)

	url := strings.TrimSpace(output)
	prefix := "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(url, prefix), "url = %.40q", url)
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}), "not a JPEG stream")
}

func TestDataURLBadBackground(t *testing.T) {
	output, err := execute(t, "--format", "json", "dataurl", writeScene(t, testScene), "--background", "plaid")
	require.Error(t, err)
	assert.ErrorIs(t, err, easel.ErrUnsupportedColor)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "plaid")
}

func TestExitError(t *testing.T) {
	err := WrapExitError(ExitCommandError, "load", os.ErrNotExist)
	assert.Equal(t, "load: "+os.ErrNotExist.Error(), err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
