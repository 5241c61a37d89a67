// Package importmap renders the binding registry into the artifacts consumers read:
// an inline script element, a virtual module and a JSON file.
package importmap

import (
	"bytes"
	"context"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InjectHTML prepends an import map script element to the document head.
func InjectHTML(doc []byte, im domain.ImportMap) ([]byte, error) {
	payload, err := im.JSON()
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrHTMLParseFailed.Error())
	}

	head := findElement(root, atom.Head)
	if head == nil {
		return nil, zerr.With(domain.ErrHTMLParseFailed, "reason", "document has no head")
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "type", Val: "importmap"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: string(payload)})
	head.InsertBefore(script, head.FirstChild)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, zerr.Wrap(err, domain.ErrHTMLParseFailed.Error())
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// InjectExtension injects the current import map into every transformed HTML document.
func InjectExtension(s *store.Store) pipeline.Extension {
	return pipeline.Extension{
		Name:  pipeline.Name("inject-import-map"),
		Apply: pipeline.ApplyBoth,
		TransformHTML: func(_ context.Context, doc []byte, _ pipeline.HTMLContext) ([]byte, error) {
			return InjectHTML(doc, s.RenderImportMap())
		},
	}
}
