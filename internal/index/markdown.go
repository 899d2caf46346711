package index

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
)

// PlainText reduces a markdown body to the text a reader would see, one line
// per block. Post and pointer bodies are markdown; indexing the rendered text
// keeps formatting syntax out of the term dictionary, and code blocks, inline
// code, images and raw HTML carry no searchable prose so they are dropped.
func PlainText(body string) string {
	doc := markdown.Parse([]byte(body), nil)

	var blocks []string
	var cur strings.Builder
	inItem := 0

	flush := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			blocks = append(blocks, text)
		}
		cur.Reset()
	}

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.CodeBlock, *ast.Code, *ast.Image, *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren

		case *ast.Text:
			if entering {
				cur.Write(n.Literal)
			}

		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				cur.WriteString(" ")
			}

		case *ast.Heading:
			flush()

		case *ast.Paragraph:
			// Inside a list item the paragraph is part of the bullet line
			if inItem > 0 {
				if !entering {
					cur.WriteString(" ")
				}
				return ast.GoToNext
			}
			flush()

		case *ast.ListItem:
			flush()
			if entering {
				inItem++
				cur.WriteString("• ")
			} else {
				inItem--
			}
		}

		return ast.GoToNext
	})
	flush()

	return strings.Join(blocks, "\n")
}
