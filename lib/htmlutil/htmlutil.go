package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("marketsnap.lib.htmlutil")

// ParseDocument parses rendered markup into a goquery document.
func ParseDocument(ctx context.Context, markup string) (*goquery.Document, error) {
	_, span := tracer.Start(ctx, "ParseDocument")
	defer span.End()

	span.SetAttributes(attribute.Int("markup_size", len(markup)))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse markup")
		return nil, err
	}
	return doc, nil
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// Text returns the text of the first node in the selection with surrounding whitespace
// trimmed and inner runs of whitespace collapsed, "" if the selection is empty.
func Text(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	text := GetText(sel.Nodes[0])
	text = strings.Trim(text, " \t\n\r")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// ClassTokens splits the class attribute of the first node in the selection.
func ClassTokens(sel *goquery.Selection) []string {
	if sel == nil {
		return nil
	}
	class, ok := sel.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}
