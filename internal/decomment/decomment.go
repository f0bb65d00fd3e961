// Package decomment removes source comments using grammar-aware lexers, so
// string literals that merely look like comments stay intact.
package decomment

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Strip removes comment tokens from content. The lexer is chosen by
// filename; when none matches, content is returned unchanged and ok is
// false. Preprocessor directives are not comments and are kept.
func Strip(filename, content string) (string, bool) {
	lexer := matchLexer(filename)
	if lexer == nil {
		return content, false
	}

	iter, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		return content, false
	}

	var out strings.Builder
	for _, tok := range iter.Tokens() {
		if isComment(tok.Type) {
			continue
		}
		out.WriteString(tok.Value)
	}
	return tidy(out.String()), true
}

func matchLexer(filename string) chroma.Lexer {
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer
	}
	if ext := filepath.Ext(filename); ext != "" {
		return lexers.Get(strings.TrimPrefix(ext, "."))
	}
	return nil
}

// isComment reports whether a token type is a true comment. CommentPreproc
// covers directives like #include that change program meaning.
func isComment(t chroma.TokenType) bool {
	if !t.InCategory(chroma.Comment) {
		return false
	}
	return t != chroma.CommentPreproc && t != chroma.CommentPreprocFile
}

// tidy drops lines left blank by comment removal and trims trailing spaces.
func tidy(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.Join(kept, "\n")
}
