// Package prompt builds the system and user prompts for commit-message
// generation. Sections are labeled with XML-style tags and CDATA blocks so
// the backend can tell structure from diff content.
package prompt
