package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStripShebang(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"node shebang", "#!/usr/bin/env node\nconsole.log(1)\n", "//#!/usr/bin/env node\nconsole.log(1)\n"},
		{"no shebang", "console.log(1)\n", "console.log(1)\n"},
		{"hash only", "# heading\n", "# heading\n"},
		{"shebang not first", "\n#!/bin/sh\n", "\n#!/bin/sh\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripShebang(tt.in))
		})
	}
}

func TestIsGenerated(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{
			name: "go generated header",
			code: "// Code generated by protoc-gen-go. DO NOT EDIT.\n\npackage pb\n",
			want: true,
		},
		{
			name: "after other comments",
			code: "// Copyright 2024\n//\n// Code generated by tool. DO NOT EDIT.\npackage x\n",
			want: true,
		},
		{
			name: "marker after code",
			code: "package x\n// Code generated by tool. DO NOT EDIT.\n",
			want: false,
		},
		{
			name: "hand written",
			code: "'use strict';\nmodule.exports = 1;\n",
			want: false,
		},
		{
			name: "go license block before marker",
			code: "/*\n * Copyright 2024 Example Authors.\n */\n\n// Code generated by protoc-gen-go. DO NOT EDIT.\n\npackage p\n",
			want: true,
		},
		{
			name: "js one-line block before marker",
			code: "/* eslint-disable */\n// Code generated by tool. DO NOT EDIT.\nexport const a = 1;\n",
			want: true,
		},
		{
			name: "marker after code following block",
			code: "/* header */ var a = 1;\n// Code generated by tool. DO NOT EDIT.\n",
			want: false,
		},
		{
			name: "marker inside block comment",
			code: "/*\n// Code generated by tool. DO NOT EDIT.\n*/\nvar a = 1;\n",
			want: false,
		},
		{
			name: "missing trailing period",
			code: "// Code generated by tool. DO NOT EDIT\nvar a = 1;\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenerated(tt.code))
		})
	}
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func TestRead_PreservesOrderAndStripsShebang(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/a.js":   "var a = 1;\n",
		"/src/b.js":   "#!/usr/bin/env node\nvar b = 2;\n",
		"/src/c/d.ts": "let d: number = 4;\n",
	})

	paths := []string{"/src/c/d.ts", "/src/a.js", "/src/b.js"}
	files, err := Read(context.Background(), fs, paths, ReadOptions{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, files, 3)

	for i, f := range files {
		assert.Equal(t, paths[i], f.Path)
	}
	assert.Equal(t, "//#!/usr/bin/env node\nvar b = 2;\n", files[2].Code)
}

func TestRead_KeepShebang(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/bin/tool.js": "#!/usr/bin/env node\n"})

	files, err := Read(context.Background(), fs, []string{"/bin/tool.js"}, ReadOptions{KeepShebang: true})
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env node\n", files[0].Code)
}

func TestRead_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/a.js": "1;\n"})

	_, err := Read(context.Background(), fs, []string{"/src/a.js", "/src/missing.js"}, ReadOptions{Jobs: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/src/missing.js")
}

func TestRead_ManyFilesBoundedJobs(t *testing.T) {
	fs := afero.NewMemMapFs()
	var paths []string
	for i := 0; i < 50; i++ {
		p := fmt.Sprintf("/src/f%02d.js", i)
		writeFiles(t, fs, map[string]string{p: fmt.Sprintf("var x%d = %d;\n", i, i)})
		paths = append(paths, p)
	}

	files, err := Read(context.Background(), fs, paths, ReadOptions{Jobs: 3})
	require.NoError(t, err)
	require.Len(t, files, 50)
	assert.Equal(t, "var x49 = 49;\n", files[49].Code)
}

func TestRead_CancelledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/a.js": "1;\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Read(ctx, fs, []string{"/a.js"}, ReadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead_NoPaths(t *testing.T) {
	files, err := Read(context.Background(), afero.NewMemMapFs(), nil, ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}
