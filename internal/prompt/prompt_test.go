package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayne/cmtr/internal/commitctx"
	"github.com/shayne/cmtr/internal/gitctx"
)

func TestUser_AllSections(t *testing.T) {
	payload := &commitctx.Payload{
		NameStatus:       "M\tmain.go",
		DiffStat:         "1 file changed",
		DiffText:         "diff --git a/main.go b/main.go",
		DiffWasTruncated: true,
		DiffWasFiltered:  true,
		LogScopes: []commitctx.LogScope{
			{Path: "pkg", Entries: []gitctx.CommitMessage{
				{Subject: "pkg: add thing", Body: "Because reasons."},
			}},
		},
		HasCommitHistory: true,
	}
	got := User(Context{Payload: payload, MaxLogBodyLines: 6})
	assert.True(t, strings.HasPrefix(got, "<context>"))
	assert.True(t, strings.HasSuffix(got, "</context>"))
	assert.Contains(t, got, `<staged_files format="name-status">`)
	assert.Contains(t, got, `<diff_patch format="git-diff" truncated="true" filtered="true">`)
	assert.Contains(t, got, `<path name="pkg">`)
	assert.Contains(t, got, `<commit index="1">`)
	assert.Contains(t, got, "<subject>pkg: add thing</subject>")
	assert.Contains(t, got, "<body>Because reasons.</body>")
}

func TestUser_NoFlagsNoAttrs(t *testing.T) {
	payload := &commitctx.Payload{
		DiffText:         "some diff",
		HasCommitHistory: true,
	}
	got := User(Context{Payload: payload})
	assert.Contains(t, got, `<diff_patch format="git-diff">`)
}

func TestUser_BodyClippedToCap(t *testing.T) {
	payload := &commitctx.Payload{
		DiffText: "d",
		LogScopes: []commitctx.LogScope{
			{Path: "a", Entries: []gitctx.CommitMessage{
				{Subject: "s", Body: "l1\nl2\nl3\nl4"},
			}},
		},
		HasCommitHistory: true,
	}
	got := User(Context{Payload: payload, MaxLogBodyLines: 2})
	assert.Contains(t, got, "<body>l1\nl2</body>")
	assert.NotContains(t, got, "l3")
}

func TestUser_BodyUncappedWhenDisabled(t *testing.T) {
	payload := &commitctx.Payload{
		DiffText: "d",
		LogScopes: []commitctx.LogScope{
			{Path: "a", Entries: []gitctx.CommitMessage{
				{Subject: "s", Body: "l1\nl2\nl3"},
			}},
		},
		HasCommitHistory: true,
	}
	got := User(Context{Payload: payload, MaxLogBodyLines: 0})
	assert.Contains(t, got, "<body>l1\nl2\nl3</body>")
}

func TestUser_NoHistoryFallback(t *testing.T) {
	payload := &commitctx.Payload{DiffText: "d"}
	got := User(Context{Payload: payload})
	assert.Contains(t, got, `<commit_history status="none" />`)
	assert.Contains(t, got, "<fallback_guidance>")
	assert.Contains(t, got, "Conventional Commits")
}

func TestUser_XMLEscaping(t *testing.T) {
	payload := &commitctx.Payload{
		DiffText: "d",
		LogScopes: []commitctx.LogScope{
			{Path: `a"b`, Entries: []gitctx.CommitMessage{
				{Subject: "fix <nil> & panic"},
			}},
		},
		HasCommitHistory: true,
	}
	got := User(Context{Payload: payload})
	assert.Contains(t, got, `<path name="a&quot;b">`)
	assert.Contains(t, got, "<subject>fix &lt;nil&gt; &amp; panic</subject>")
}

func TestWrapCDATA_SplitsCloser(t *testing.T) {
	got := wrapCDATA("a]]>b")
	assert.Equal(t, "<![CDATA[a]]]]><![CDATA[>b]]>", got)
	assert.NotContains(t, strings.TrimSuffix(strings.TrimPrefix(got, "<![CDATA["), "]]>"), "a]]>b")
}

func TestSystem_MentionsTagSemantics(t *testing.T) {
	s := System()
	require.NotEmpty(t, s)
	assert.Contains(t, s, "commit message")
	assert.Contains(t, s, "<diff_patch>")
}
