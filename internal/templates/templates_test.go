package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/jsparse"
	"github.com/wncli/wn/internal/testutil"
	"github.com/wncli/wn/internal/transform"
	"github.com/wncli/wn/internal/version"
)

var scaffoldFiles = []string{
	"app.jsx",
	"components/counter.css",
	"components/counter.jsx",
	"package.json",
	"pages/index.jsx",
	"wn.yaml",
}

func TestListFiles(t *testing.T) {
	files, err := ListFiles()
	require.NoError(t, err)
	assert.Equal(t, scaffoldFiles, files)
	for _, f := range files {
		if strings.HasSuffix(f, ".jsx") {
			assert.NotEmpty(t, Describe(f), f)
		}
	}
}

func TestGenerate(t *testing.T) {
	fs := testutil.MemFs(t, "/", nil)
	result, err := NewGenerator(fs, GenerateOptions{TargetDir: "/work/my-app"}).Generate()
	require.NoError(t, err)

	assert.Equal(t, "/work/my-app", result.TargetDir)
	assert.Equal(t, scaffoldFiles, result.Files)

	files := testutil.ReadTree(t, fs, "/work/my-app")
	assert.Equal(t, scaffoldFiles, testutil.Names(files))
	assert.Contains(t, files["app.jsx"], "navigationBarTitleText: 'My App'")
	assert.Contains(t, files["app.jsx"], "console.log('my-app: launched')")
	assert.Contains(t, files["package.json"], `"wn-cli": "^`+version.RuntimeVersion+`"`)
	assert.Contains(t, files["wn.yaml"], "# wn project configuration for my-app")
}

func TestGenerateRefusesNonEmptyDir(t *testing.T) {
	fs := testutil.MemFs(t, "/work", map[string]string{"app.jsx": "existing"})

	_, err := NewGenerator(fs, GenerateOptions{TargetDir: "/work", Name: "demo"}).Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")

	_, err = NewGenerator(fs, GenerateOptions{TargetDir: "/work", Name: "demo", Force: true}).Generate()
	require.NoError(t, err)
	files := testutil.ReadTree(t, fs, "/work")
	assert.NotEqual(t, "existing", files["app.jsx"])
}

func TestGenerateRejectsInvalidName(t *testing.T) {
	fs := testutil.MemFs(t, "/", nil)
	_, err := NewGenerator(fs, GenerateOptions{TargetDir: "/work", Name: "It's"}).Generate()
	assert.Error(t, err)
}

// The scaffold must compile: every module parses and transforms without
// warnings.
func TestScaffoldCompiles(t *testing.T) {
	files, err := NewRenderer(TemplateData{Name: "demo", Title: "Demo", RuntimeVersion: "1.0.0"}).RenderScaffold()
	require.NoError(t, err)

	roles := map[string]transform.Role{
		"app.jsx":                transform.RoleApp,
		"pages/index.jsx":        transform.RolePage,
		"components/counter.jsx": transform.RoleComponent,
	}
	tr := transform.New(transform.DefaultOptions())
	for _, f := range files {
		want, ok := roles[f.TargetPath]
		if !ok {
			continue
		}
		prog, err := jsparse.New().Parse(f.TargetPath, f.Content)
		require.NoError(t, err, f.TargetPath)
		out, err := tr.Transform(transform.Input{ID: f.TargetPath, Program: prog, SourceRoot: "."})
		require.NoError(t, err, f.TargetPath)
		assert.Equal(t, want, out.Role, f.TargetPath)
		assert.Empty(t, out.Warnings, f.TargetPath)
	}
}

func TestValidateProjectName(t *testing.T) {
	valid := []string{"app", "my-app", "my_app.v2", "a1"}
	for _, name := range valid {
		assert.NoError(t, ValidateProjectName(name), name)
	}
	invalid := []string{"", "My-App", "1app", "-app", "it's", strings.Repeat("a", 215)}
	for _, name := range invalid {
		assert.Error(t, ValidateProjectName(name), name)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"My App":   "my-app",
		"hello":    "hello",
		"2048game": "game",
		"___":      "app",
		"wn's":     "wns",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "My App", Title("my-app"))
	assert.Equal(t, "Shop Cart V2", Title("shop_cart.v2"))
	assert.Equal(t, "App", Title("app"))
}
