package template_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/create-fun-cli/create-fun/internal/core/config"
	"github.com/create-fun-cli/create-fun/internal/core/project"
	"github.com/create-fun-cli/create-fun/internal/core/template"
)

func defaultTable(t *testing.T) *template.Table {
	t.Helper()
	meta, err := config.LoadMetadata("")
	require.NoError(t, err)
	table, err := template.NewTable(meta.Templates)
	require.NoError(t, err)
	return table
}

func TestResolve_SupportedPairs(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	tests := []struct {
		framework string
		typed     bool
		want      string
		wantName  string
	}{
		{"react", false, "https://github.com/create-fun-cli/react-template.git", "react"},
		{"react", true, "https://github.com/create-fun-cli/react-ts-template.git", "react-ts"},
		{"vue", false, "https://github.com/create-fun-cli/vue-template.git", "vue"},
		{"vue", true, "https://github.com/create-fun-cli/vue-ts-template.git", "vue-ts"},
	}
	for _, tt := range tests {
		choice := template.Choice{Framework: tt.framework, Variant: template.VariantFor(tt.typed)}
		src, ok := table.Resolve(choice)
		require.True(t, ok, "expected %s to resolve", choice)
		assert.Equal(t, template.KindGit, src.Kind)
		assert.Equal(t, tt.want, src.Location)
		assert.Equal(t, tt.wantName, src.Name)
	}
}

func TestResolve_IsPure(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)
	choice := template.Choice{Framework: "react", Variant: template.VariantTyped}

	first, ok1 := table.Resolve(choice)
	second, ok2 := table.Resolve(choice)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestResolve_UnsupportedPair(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	_, ok := table.Resolve(template.Choice{Framework: "angular", Variant: template.VariantTyped})
	assert.False(t, ok)

	_, ok = table.Resolve(template.Choice{Framework: "react", Variant: template.Variant("coffeescript")})
	assert.False(t, ok)
}

func TestResolveChoice_UnsupportedIsResolutionError(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	_, err := table.ResolveChoice(template.Choice{Framework: "svelte", Variant: template.VariantPlain})
	require.Error(t, err)
	assert.True(t, template.IsResolutionError(err))
	assert.Contains(t, err.Error(), "svelte (plain)")
}

func TestResolveChoice_RawGoesThroughFlagPath(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	src, err := table.ResolveChoice(template.Choice{Raw: "vue-ts"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/create-fun-cli/vue-ts-template.git", src.Location)
}

func TestResolveFlag(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	tests := []struct {
		name      string
		value     string
		wantKind  template.SourceKind
		wantLoc   string
		wantRef   string
		wantError bool
	}{
		{name: "table name", value: "react-ts", wantKind: template.KindGit, wantLoc: "https://github.com/create-fun-cli/react-ts-template.git"},
		{name: "github shorthand", value: "github:acme/solid-template", wantKind: template.KindGitHubArchive, wantLoc: "acme/solid-template"},
		{name: "github shorthand with ref", value: "github:acme/solid-template#v2", wantKind: template.KindGitHubArchive, wantLoc: "acme/solid-template", wantRef: "v2"},
		{name: "bare owner/repo", value: "acme/solid-template", wantKind: template.KindGitHubArchive, wantLoc: "acme/solid-template"},
		{name: "https url", value: "https://gitlab.com/acme/solid.git", wantKind: template.KindGit, wantLoc: "https://gitlab.com/acme/solid.git"},
		{name: "scp-like", value: "git@github.com:acme/solid.git", wantKind: template.KindGit, wantLoc: "git@github.com:acme/solid.git"},
		{name: "unknown name", value: "angular", wantError: true},
		{name: "empty", value: "", wantError: true},
		{name: "bad scheme", value: "ftp://example.com/repo", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := table.ResolveFlag(tt.value)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, template.IsResolutionError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, src.Kind)
			assert.Equal(t, tt.wantLoc, src.Location)
			assert.Equal(t, tt.wantRef, src.Ref)
		})
	}
}

func TestResolveFlag_LocalDirectory(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)
	dir := t.TempDir()

	src, err := table.ResolveFlag(dir)
	require.NoError(t, err)
	assert.Equal(t, template.KindGit, src.Kind)
	assert.Equal(t, dir, src.Location)
}

func TestFrameworksAndNames(t *testing.T) {
	t.Parallel()
	table := defaultTable(t)

	assert.Equal(t, []string{"react", "vue"}, table.Frameworks())
	assert.Equal(t, []string{"react", "react-ts", "vue", "vue-ts"}, table.Names())
}

func TestNewTable_AddingARowIsEnough(t *testing.T) {
	t.Parallel()
	meta, err := config.LoadMetadata("")
	require.NoError(t, err)
	merged := meta.Merge(&project.UserConfig{Templates: map[string]project.TemplateEntry{
		"svelte-ts": {Framework: "svelte", Variant: "typed", Source: "acme/svelte-ts-template"},
	}})

	table, err := template.NewTable(merged.Templates)
	require.NoError(t, err)

	src, ok := table.Resolve(template.Choice{Framework: "svelte", Variant: template.VariantTyped})
	require.True(t, ok)
	assert.Equal(t, template.KindGitHubArchive, src.Kind)
	assert.Equal(t, "svelte-ts", src.Name)
	assert.Contains(t, table.Frameworks(), "svelte")
}

func TestNewTable_RejectsDuplicatePair(t *testing.T) {
	t.Parallel()
	_, err := template.NewTable(map[string]project.TemplateEntry{
		"a": {Framework: "react", Variant: "typed", Source: "acme/a"},
		"b": {Framework: "react", Variant: "typed", Source: "acme/b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both claim react/typed")
}

func TestNewTable_RejectsUnknownVariant(t *testing.T) {
	t.Parallel()
	_, err := template.NewTable(map[string]project.TemplateEntry{
		"a": {Framework: "react", Variant: "flow", Source: "acme/a"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown variant "flow"`)
}

func TestNewTable_RejectsBadSource(t *testing.T) {
	t.Parallel()
	_, err := template.NewTable(map[string]project.TemplateEntry{
		"a": {Framework: "react", Variant: "plain", Source: "not a source"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template "a"`)
}

func TestResolveFlag_LocalDirectoryBeatsBareShorthand(t *testing.T) {
	table := defaultTable(t)
	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "templates", "react"), 0755))

	originalWd, err := os.Getwd()
	require.NoError(t, err, "Failed to get current working directory")
	require.NoError(t, os.Chdir(tempDir), "Failed to change to temporary directory")
	defer func() { _ = os.Chdir(originalWd) }()

	src, err := table.ResolveFlag("templates/react")
	require.NoError(t, err)
	assert.Equal(t, template.KindGit, src.Kind)
	assert.Equal(t, "templates/react", src.Location)

	src, err = table.ResolveFlag("github:templates/react")
	require.NoError(t, err)
	assert.Equal(t, template.KindGitHubArchive, src.Kind)
	assert.Equal(t, "templates/react", src.Location)

	src, err = table.ResolveFlag("templates/vue")
	require.NoError(t, err, "a missing directory falls through to the shorthand")
	assert.Equal(t, template.KindGitHubArchive, src.Kind)
}
