package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/build"
	"github.com/wncli/wn/internal/config"
	"github.com/wncli/wn/internal/output"
	"github.com/wncli/wn/internal/testutil"
)

func testCompiler(t *testing.T, files map[string]string) *compiler {
	t.Helper()
	fs := testutil.MemFs(t, "/proj", files)
	return &compiler{
		fs:  fs,
		cfg: config.DefaultConfig(),
		paths: &config.Paths{
			Root:        "/proj/src",
			Entry:       "app.jsx",
			Target:      "/proj/dist",
			NodeModules: "/proj/node_modules",
		},
	}
}

type moduleLine struct {
	ID   string
	Role string
	Err  bool
}

func moduleLines(r *output.BuildReport) []moduleLine {
	lines := make([]moduleLine, len(r.Modules))
	for i, m := range r.Modules {
		lines[i] = moduleLine{ID: m.ID, Role: m.Role, Err: m.Error != ""}
	}
	return lines
}

func TestCompile(t *testing.T) {
	c := testCompiler(t, map[string]string{
		"src/app.jsx": `import { App } from 'wn'
import './pages/index.jsx'
export default class extends App {}
`,
		"src/pages/index.jsx": `import { Page } from 'wn'
import { format } from '../utils/format.js'
export default class extends Page {
  render() { return <view>{format(1)}</view> }
}
`,
		"src/pages/index.css":            ".index {}",
		"src/utils/format.js":            "export const format = v => String(v)\n",
		"node_modules/wn-cli/dist/wn.js": "module.exports = {}",
	})

	report, files, err := c.compile(context.Background())
	require.NoError(t, err)

	want := []moduleLine{
		{ID: "utils/format.js", Role: "local_module"},
		{ID: "pages/index.jsx", Role: "page"},
		{ID: "app.jsx", Role: "app"},
	}
	if diff := cmp.Diff(want, moduleLines(report)); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"wn"}, report.Packages)
	assert.Empty(t, report.PackageWarnings)
	assert.Zero(t, report.Failed())

	out := testutil.ReadTree(t, c.fs, "/proj/dist")
	assert.Contains(t, out, "app.js")
	assert.Contains(t, out, "pages/index/index.js")
	assert.Contains(t, out, "pages/index/index.wxml")
	assert.Equal(t, ".index {}", out["pages/index/index.wxss"])
	assert.Contains(t, out, "utils/format.js")
	assert.Equal(t, "module.exports = {}", out["modules/wn.js"])

	assert.Contains(t, files, "/proj/src/pages/index.jsx")
	assert.Contains(t, files, "/proj/src/pages/index.wxss")
	assert.Contains(t, files, "/proj/src/pages/index.css")
}

func TestCompile_FailedModule(t *testing.T) {
	c := testCompiler(t, map[string]string{
		"src/app.jsx": `import { App } from 'wn'
import './pages/broken.jsx'
export default class extends App {}
`,
		"src/pages/broken.jsx": "export default class extends Page {\n  render() { return <view> }\n}\n",
	})

	report, _, err := c.compile(context.Background())
	require.NoError(t, err)

	want := []moduleLine{
		{ID: "app.jsx", Role: "app"},
		{ID: "pages/broken.jsx", Role: roleUnknown, Err: true},
	}
	if diff := cmp.Diff(want, moduleLines(report)); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []string{"wn"}, report.PackageWarnings)
	assert.Empty(t, report.Packages)
}

func TestCompile_UnresolvedImportWarns(t *testing.T) {
	c := testCompiler(t, map[string]string{
		"src/app.jsx": `import { App } from 'wn'
import { track } from './missing.js'
export default class extends App {
  onLaunch() { track() }
}
`,
		"node_modules/wn-cli/dist/wn.js": "module.exports = {}",
	})

	report, _, err := c.compile(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Modules, 1)
	m := report.Modules[0]
	assert.Equal(t, "app.jsx", m.ID)
	assert.Equal(t, output.StatusWarned, m.Status())
	assert.Equal(t, []string{`module "app.jsx": import "./missing.js" matches no file`}, m.Warnings)
	assert.Zero(t, report.Failed())
}

func TestRebuild_WritesReportInFormat(t *testing.T) {
	c := testCompiler(t, map[string]string{
		"src/app.jsx":                    "import { App } from 'wn'\nexport default class extends App {}\n",
		"node_modules/wn-cli/dist/wn.js": "module.exports = {}",
	})

	var buf bytes.Buffer
	files, err := c.rebuild(&buf, output.FormatJSON)(context.Background())
	require.NoError(t, err)
	assert.Contains(t, files, "/proj/src/app.jsx")

	var report output.BuildReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report), buf.String())
	require.Len(t, report.Modules, 1)
	assert.Equal(t, "app.jsx", report.Modules[0].ID)
	assert.Equal(t, "app", report.Modules[0].Role)
}

func TestCompile_Cycle(t *testing.T) {
	c := testCompiler(t, map[string]string{
		"src/app.jsx": "import './a.js'\nexport default class extends App {}\n",
		"src/a.js":    "import './b.js'\nexport const a = 1\n",
		"src/b.js":    "import './a.js'\nexport const b = 2\n",
	})

	_, files, err := c.compile(context.Background())
	require.Error(t, err)

	var cycle *build.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a.js", "b.js", "a.js"}, cycle.Path)
	assert.Equal(t, ExitBuildFailed, ExitCodeFromError(err))
	assert.NotEmpty(t, files)
}

func TestCompile_MissingEntry(t *testing.T) {
	c := testCompiler(t, map[string]string{"src/other.jsx": ""})

	_, files, err := c.compile(context.Background())
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Equal(t, ExitNotFound, ExitCodeFromError(err))
}
