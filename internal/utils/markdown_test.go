package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("# Title\n\nSome **bold** text.\n\n![pic](https://img.example.com/a.png)\n\n<script>alert(1)</script>"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `id="title"`)
	assert.Contains(t, out, `loading="lazy"`)
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdown_WrapsTables(t *testing.T) {
	out := string(RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |"))
	assert.Contains(t, out, `<div class="overflow-x-auto"><table>`)
}

func TestMarkdownExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world and more", MarkdownExcerpt("## Hello\n\n*world* and [more](https://x)", 100))
	got := MarkdownExcerpt(strings.Repeat("word ", 50), 20)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 23)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("  short  ", 10))
	assert.Equal(t, "想法想...", Excerpt("想法想法想法", 3))
	assert.Equal(t, "bold", StripHTML("<p><b>bold</b></p>"))
}
