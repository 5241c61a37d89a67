package esbuild

import (
	"bytes"
	"path/filepath"
	"strings"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// page is an HTML input together with its module script entries.
type page struct {
	// path is the absolute path of the document.
	path    string
	doc     *html.Node
	scripts []*moduleScript
}

type moduleScript struct {
	node *html.Node
	// file is the absolute path of the referenced script.
	file string
}

func loadPage(path, root string, content []byte) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrHTMLParseFailed.Error()), "path", path)
	}

	p := &page{path: path, doc: doc}
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.Script || attr(n, "type") != "module" {
			return
		}
		src := attr(n, "src")
		if src == "" || isRemote(src) {
			return
		}
		p.scripts = append(p.scripts, &moduleScript{node: n, file: resolveSrc(src, filepath.Dir(path), root)})
	})
	return p, nil
}

// rewrite points every module script at its bundled output and links extracted CSS.
func (p *page) rewrite(outputs map[string]entryOutput) ([]byte, error) {
	var head *html.Node
	walk(p.doc, func(n *html.Node) {
		if head == nil && n.DataAtom == atom.Head {
			head = n
		}
	})

	for _, script := range p.scripts {
		out, ok := outputs[script.file]
		if !ok {
			continue
		}
		setAttr(script.node, "src", "/"+out.js)
		if out.css != "" && head != nil {
			head.AppendChild(&html.Node{
				Type:     html.ElementNode,
				Data:     "link",
				DataAtom: atom.Link,
				Attr: []html.Attribute{
					{Key: "rel", Val: "stylesheet"},
					{Key: "href", Val: "/" + out.css},
				},
			})
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, p.doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrHTMLParseFailed.Error()), "path", p.path)
	}
	return buf.Bytes(), nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "//") ||
		strings.HasPrefix(src, "data:")
}

// resolveSrc maps a script src to a file: absolute URLs are rooted at the project root.
func resolveSrc(src, pageDir, root string) string {
	src = domain.StripQuery(src)
	if strings.HasPrefix(src, "/") {
		return filepath.Join(root, filepath.FromSlash(src))
	}
	return filepath.Join(pageDir, filepath.FromSlash(src))
}
