package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
)

func writeFile(t *testing.T, name string, body []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func TestRenderYAMLToStdout(t *testing.T) {
	input := writeFile(t, "result.json", []byte(patterntest.ResultJSON))
	var out bytes.Buffer
	err := runRender(context.Background(), renderOptions{input: input, format: "yaml", out: "-"}, &out)
	require.NoError(t, err)

	var doc render.Document
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Sections, render.PageCount)
	for i, s := range doc.Sections {
		assert.Equal(t, patterntest.Titles[i], s.Title)
	}
}

func TestRenderHTMLWithPhoto(t *testing.T) {
	input := writeFile(t, "result.json", []byte(patterntest.ResultJSON))
	photo := writeFile(t, "me.png", patterntest.PNG)
	target := filepath.Join(t.TempDir(), "report.html")

	var out bytes.Buffer
	err := runRender(context.Background(), renderOptions{input: input, photo: photo, format: "html", out: target}, &out)
	require.NoError(t, err)
	assert.Equal(t, target, strings.TrimSpace(out.String()))

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(body), "data:image/png;base64,")
	assert.Contains(t, string(body), "window.print()")
}

func TestRenderPDFWithFont(t *testing.T) {
	input := writeFile(t, "result.json", []byte(patterntest.ResultJSON))
	font := writeFile(t, "font.ttf", goregular.TTF)
	target := filepath.Join(t.TempDir(), "report.pdf")

	err := runRender(context.Background(), renderOptions{input: input, format: "pdf", out: target, font: font}, &bytes.Buffer{})
	require.NoError(t, err)
	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestRenderRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"unknown field", `{"bogus": 1}`},
		{"missing layers", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := writeFile(t, "result.json", []byte(tc.body))
			err := runRender(context.Background(), renderOptions{input: input, format: "yaml", out: "-"}, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}

	input := writeFile(t, "result.json", []byte(patterntest.ResultJSON))
	err := runRender(context.Background(), renderOptions{input: input, format: "docx", out: "-"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCatalogCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"catalog"})
	require.NoError(t, root.Execute())

	var dump catalogDump
	require.NoError(t, json.Unmarshal(out.Bytes(), &dump))
	assert.Len(t, dump.Products, 6)
	assert.NotEmpty(t, dump.Issues)

	out.Reset()
	require.NoError(t, writeCatalog(&out, "yaml"))
	assert.Contains(t, out.String(), "products:")
	assert.Error(t, writeCatalog(&out, "xml"))
}
