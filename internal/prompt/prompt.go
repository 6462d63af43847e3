package prompt

import (
	"fmt"
	"strings"

	"github.com/shayne/cmtr/internal/commitctx"
)

// Context carries everything the user prompt renders, plus the body-line cap
// applied to log exemplars.
type Context struct {
	Payload         *commitctx.Payload
	MaxLogBodyLines int
}

// System returns the fixed system prompt.
func System() string {
	return "You are an expert software engineer writing concise, accurate Git commit messages. " +
		"Use the provided staged diff and commit history examples to match the repository's style. " +
		"The user prompt uses XML-style tags (e.g. <diff_patch>, <log_examples>) and CDATA blocks " +
		"to label sections; treat those tags as semantic separators, not content.\n" +
		"Rules:\n" +
		"- Output ONLY the commit message text (subject line, optional body).\n" +
		"- Use imperative mood and be specific about the change.\n" +
		"- Follow the style patterns in the examples (prefixes, casing, punctuation, body formatting).\n" +
		"- Match body usage to the examples: include a body when bodies are common; omit it when they are not unless essential.\n" +
		"- If a body is needed, separate it from the subject with a blank line.\n" +
		"- Keep the subject concise (aim ~50 chars unless examples show otherwise)."
}

const fallbackGuidance = "Default to common git commit conventions: a concise imperative subject" +
	" (aim for ~50 characters) and add a body only when it clarifies why or" +
	" impact. If a body is needed, separate it with a blank line and wrap" +
	" lines around 72 characters. If you choose to add a type/scope prefix," +
	" follow Conventional Commits (<type>(scope): <description>)."

// User renders the user prompt from the collected context. Returns "" only
// for a context with no renderable sections, which callers treat as a user
// error.
func User(pc Context) string {
	p := pc.Payload
	var lines []string
	lines = append(lines, "<context>")
	if p.NameStatus != "" {
		lines = append(lines, `  <staged_files format="name-status">`)
		lines = append(lines, wrapCDATA(p.NameStatus))
		lines = append(lines, "  </staged_files>")
	}
	if p.DiffStat != "" {
		lines = append(lines, `  <diff_stat format="git-diff-stat">`)
		lines = append(lines, wrapCDATA(p.DiffStat))
		lines = append(lines, "  </diff_stat>")
	}
	if p.DiffText != "" {
		var attrs []string
		if p.DiffWasTruncated {
			attrs = append(attrs, `truncated="true"`)
		}
		if p.DiffWasFiltered {
			attrs = append(attrs, `filtered="true"`)
		}
		attrText := ""
		if len(attrs) > 0 {
			attrText = " " + strings.Join(attrs, " ")
		}
		lines = append(lines, fmt.Sprintf(`  <diff_patch format="git-diff"%s>`, attrText))
		lines = append(lines, wrapCDATA(p.DiffText))
		lines = append(lines, "  </diff_patch>")
	}
	if len(p.LogScopes) > 0 {
		lines = append(lines, "  <log_examples>")
		for _, scope := range p.LogScopes {
			lines = append(lines, fmt.Sprintf(`    <path name="%s">`, xmlEscape(scope.Path)))
			for i, entry := range scope.Entries {
				lines = append(lines, fmt.Sprintf(`      <commit index="%d">`, i+1))
				lines = append(lines, fmt.Sprintf("        <subject>%s</subject>", xmlEscape(entry.Subject)))
				if entry.Body != "" {
					bodyLines := strings.Split(entry.Body, "\n")
					if pc.MaxLogBodyLines > 0 && len(bodyLines) > pc.MaxLogBodyLines {
						bodyLines = bodyLines[:pc.MaxLogBodyLines]
					}
					if len(bodyLines) > 0 {
						body := strings.Join(bodyLines, "\n")
						lines = append(lines, fmt.Sprintf("        <body>%s</body>", xmlEscape(body)))
					}
				}
				lines = append(lines, "      </commit>")
			}
			lines = append(lines, "    </path>")
		}
		lines = append(lines, "  </log_examples>")
	} else if !p.HasCommitHistory {
		lines = append(lines, `  <commit_history status="none" />`)
		lines = append(lines, "  <fallback_guidance>")
		lines = append(lines, wrapCDATA(fallbackGuidance))
		lines = append(lines, "  </fallback_guidance>")
	}
	lines = append(lines, "</context>")
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// wrapCDATA wraps text in a CDATA section, splitting any embedded "]]>" so
// the section cannot be closed early by diff content.
func wrapCDATA(text string) string {
	safe := strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + safe + "]]>"
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(text string) string {
	return xmlEscaper.Replace(text)
}
