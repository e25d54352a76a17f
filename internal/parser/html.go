package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ragchunk/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1-h6 become markdown-style heading
// lines; script, style and navigation chrome are dropped.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse html: %w", err)
	}

	title := stem(filename)
	if t := findTitle(root); t != "" {
		title = t
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				writeBlock(&out, strings.Repeat("#", level)+" "+textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "pre":
				if t := textContent(n); t != "" {
					writeBlock(&out, "```\n"+t+"\n```")
				}
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					writeBlock(&out, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	return document.Document{
		SourceID: stem(filename),
		Title:    title,
		Text:     strings.TrimSpace(out.String()),
	}, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
