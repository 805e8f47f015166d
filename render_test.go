package dug

import (
	"strings"
	"testing"
)

func sampleTree() *ResultTree {
	return &ResultTree{
		Root: ResultEntry{Path: "/tmp/root", Pairs: []Pair{{Owner: 1000, Bytes: 100}}},
		Subdirs: []ResultEntry{
			{Path: "/tmp/root/a", Pairs: []Pair{{Owner: 1000, Bytes: 50}}},
			{Path: "/tmp/root/b", Pairs: []Pair{{Owner: 2000, Bytes: 25}}},
		},
		Summary: ResultEntry{Path: "totals", Pairs: []Pair{{Owner: 1000, Bytes: 150}, {Owner: 2000, Bytes: 25}}},
	}
}

func TestRenderJSONSuccessShape(t *testing.T) {
	assert := newAsserter(t)
	out := RenderJSON(sampleTree(), OwnerGID, nil)

	assert(strings.Contains(out, `"errors"`), "must contain errors array: %s", out)
	assert(strings.Contains(out, `"subdirs"`), "must contain subdirs object: %s", out)
	assert(strings.Contains(out, `"summary"`), "must contain summary object: %s", out)
	assert(strings.Contains(out, `"total": 175`), "total must be 175: %s", out)
	assert(strings.Contains(out, `"/tmp/root/a"`), "must list subdir a: %s", out)
	assert(strings.Contains(out, `"1000": 150`), "summary must show owner 1000 at 150: %s", out)
}

func TestRenderJSONFailureShape(t *testing.T) {
	assert := newAsserter(t)
	tree := &ResultTree{Failed: true, Errors: []string{"/a: stat: boom"}}
	out := RenderJSON(tree, OwnerGID, nil)

	assert(strings.Contains(out, `"failure": true`), "must mark failure: %s", out)
	assert(strings.Contains(out, `"/a: stat: boom"`), "must include error text: %s", out)
}

func TestRenderJSONEscapesBackslashOnce(t *testing.T) {
	assert := newAsserter(t)
	tree := &ResultTree{Failed: true, Errors: []string{`C:\path\to\file`}}
	out := RenderJSON(tree, OwnerGID, nil)

	assert(strings.Contains(out, `C:\\path\\to\\file`), "each backslash must be doubled exactly once: %s", out)
	assert(!strings.Contains(out, `\\\\`), "must not double-escape an already-escaped backslash: %s", out)
}

func TestRenderTextSections(t *testing.T) {
	assert := newAsserter(t)
	out := RenderText(sampleTree(), false, OwnerGID, nil)

	assert(strings.Contains(out, "Sub Directories"), "must contain Sub Directories header: %s", out)
	assert(strings.Contains(out, "Summaries"), "must contain Summaries header: %s", out)
	assert(strings.Contains(out, "/tmp/root/a"), "must list subdir a: %s", out)
	assert(strings.Contains(out, "Total"), "must contain a Total line: %s", out)
	assert(strings.Contains(out, "175"), "total bytes must appear: %s", out)
}

func TestRenderTextHumanReadable(t *testing.T) {
	assert := newAsserter(t)
	tree := &ResultTree{
		Summary: ResultEntry{Path: "totals", Pairs: []Pair{{Owner: 1, Bytes: 2048}}},
	}
	out := RenderText(tree, true, OwnerGID, nil)
	assert(strings.Contains(out, "2K"), "human-readable 2048 bytes should render as 2K: %s", out)
}

func TestRenderTextFailureDumpsRawErrors(t *testing.T) {
	assert := newAsserter(t)
	tree := &ResultTree{Failed: true, Errors: []string{"/a: boom"}}
	out := RenderText(tree, false, OwnerGID, nil)
	assert(strings.Contains(out, "error: /a: boom"), "failure output must be prefixed 'error: ': %s", out)
}
