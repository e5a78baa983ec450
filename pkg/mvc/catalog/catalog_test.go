package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"app/controller/demo.go": {Data: []byte(`package controller

type DemoController struct{}

type (
	request  struct{}
	response struct{}
)

func helper() {}
`)},
		"app/controller/demo_test.go": {Data: []byte(`package controller

type fixture struct{}
`)},
		"app/service/demo.go": {Data: []byte(`package service

type IDemoService interface{ Get(string) string }

type DemoService struct{}
`)},
		"app/service/README.md":       {Data: []byte("not go")},
		"app/service/testdata/x.go":   {Data: []byte("package testdata\n\ntype Hidden struct{}\n")},
		"app/service/_draft/draft.go": {Data: []byte("package draft\n\ntype Draft struct{}\n")},
		"app/root.go":                 {Data: []byte("package app\n\ntype Root int\n")},
		"other/other.go":              {Data: []byte("package other\n\ntype Other struct{}\n")},
	}
}

func TestTypes(t *testing.T) {
	c := New(testFS())

	names, err := Collect(c.Types("app"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"app/controller.DemoController",
		"app/controller.request",
		"app/controller.response",
		"app.Root",
		"app/service.IDemoService",
		"app/service.DemoService",
	}, names)
}

func TestTypes_DotAndSlashRootsAreEquivalent(t *testing.T) {
	c := New(testFS())

	dotted, err := Collect(c.Types("app.service"))
	require.NoError(t, err)
	slashed, err := Collect(c.Types("app/service"))
	require.NoError(t, err)

	assert.Equal(t, []string{"app/service.IDemoService", "app/service.DemoService"}, dotted)
	assert.Equal(t, dotted, slashed)
}

func TestTypes_WholeTree(t *testing.T) {
	for _, root := range []string{"", "."} {
		names, err := Collect(New(testFS()).Types(root))
		require.NoError(t, err)
		assert.Contains(t, names, "other.Other")
		assert.Contains(t, names, "app.Root")
		assert.Len(t, names, 7)
	}
}

func TestTypes_Restartable(t *testing.T) {
	seq := New(testFS()).Types("app/controller")

	first, err := Collect(seq)
	require.NoError(t, err)
	second, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestTypes_EarlyStop(t *testing.T) {
	var got []string
	for name, err := range New(testFS()).Types("app") {
		require.NoError(t, err)
		got = append(got, name)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}

func TestTypes_ScanErrors(t *testing.T) {
	fsys := testFS()
	fsys["broken/bad.go"] = &fstest.MapFile{Data: []byte("package broken\n\ntype {")}

	tests := []struct {
		name string
		root string
		path string
	}{
		{"missing root", "nowhere", "nowhere"},
		{"root is a file", "app/root.go", "app/root.go"},
		{"unparseable file", "broken", "broken/bad.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs []error
			for _, err := range New(fsys).Types(tt.root) {
				if err != nil {
					errs = append(errs, err)
				}
			}
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], ErrScan)

			var serr *ScanError
			require.ErrorAs(t, errs[0], &serr)
			assert.Equal(t, tt.path, serr.Path)
			assert.Equal(t, tt.root, serr.Package)
		})
	}
}

func TestPackages(t *testing.T) {
	pkgs, err := Collect(New(testFS()).Packages("app"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app/controller", "app", "app/service"}, pkgs)
}

func TestPackages_DirectoryListedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"app/a.go":   {Data: []byte("package app\n")},
		"app/b/b.go": {Data: []byte("package b\n")},
		"app/c.go":   {Data: []byte("package app\n")},
	}
	pkgs, err := Collect(New(fsys).Packages("app"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "app/b"}, pkgs)
}

func TestDir(t *testing.T) {
	tests := map[string]string{
		"":               ".",
		".":              ".",
		"app":            "app",
		"app.controller": "app/controller",
		"app/controller": "app/controller",
		"/app/":          "app",
		" app.service ":  "app/service",
		"v1.2/api":       "v1.2/api",
	}
	for in, want := range tests {
		assert.Equal(t, want, Dir(in), "Dir(%q)", in)
	}
}

func TestQualifyAndSplit(t *testing.T) {
	assert.Equal(t, "app/service.DemoService", Qualify("app/service", "DemoService"))
	assert.Equal(t, "Root", Qualify(".", "Root"))

	dir, name := Split("app/service.DemoService")
	assert.Equal(t, "app/service", dir)
	assert.Equal(t, "DemoService", name)

	dir, name = Split("Root")
	assert.Equal(t, ".", dir)
	assert.Equal(t, "Root", name)
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("app/service.DemoService", "app"))
	assert.True(t, Within("app/service.DemoService", "app.service"))
	assert.False(t, Within("app/service.DemoService", "app.controller"))
	assert.False(t, Within("application.Thing", "app"))
	assert.True(t, Within("other.Other", ""))
}
