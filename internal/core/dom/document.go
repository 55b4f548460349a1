// Package dom is a small in-memory document model for the page widgets. The
// tree is made of golang.org/x/net/html nodes, so markup assigned through
// SetInnerHTML is parsed the way a browser would and the page can be written
// back out as HTML. Element wrappers add class lists, inline styles, event
// listeners and measurement on top of the raw nodes.
package dom

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MissingElementError is returned when a page element looked up by key does
// not exist.
type MissingElementError struct {
	Key string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("element %q not found", e.Key)
}

// Document owns the node tree, the document and window level listeners, and
// the viewport. It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	body      *Element
	elements  map[*html.Node]*Element
	listeners listenerSet
	viewport  Size
	layout    LayoutFunc
	reflows   int
}

// NewDocument creates an empty html/head/body document.
func NewDocument(viewport Size) *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := newNode("html")
	head := newNode("head")
	body := newNode("body")
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)

	d := &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
		viewport: viewport,
		layout:   EstimateLayout,
	}
	d.body = d.wrap(body)
	return d
}

func newNode(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// wrap returns the Element for n, creating it on first use so listeners
// attached to a node survive repeated lookups.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

// Release forgets the wrappers of el and its descendants, dropping their
// listeners. Call it once a detached subtree will not be used again.
func (d *Document) Release(el *Element) {
	if el == nil || el == d.body {
		return
	}
	walk(el.node, func(n *html.Node) bool {
		delete(d.elements, n)
		return true
	})
}

// ElementCount returns how many elements have wrappers.
func (d *Document) ElementCount() int {
	return len(d.elements)
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(newNode(tag))
}

// GetElementByID finds an attached element by its id attribute.
func (d *Document) GetElementByID(id string) (*Element, bool) {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return d.wrap(found), true
}

// Lookup is GetElementByID for required page elements.
func (d *Document) Lookup(key string) (*Element, error) {
	el, ok := d.GetElementByID(key)
	if !ok {
		return nil, &MissingElementError{Key: key}
	}
	return el, nil
}

// AddEventListener registers a document or window level listener.
func (d *Document) AddEventListener(typ EventType, fn Listener) ListenerID {
	return d.listeners.add(typ, fn)
}

// RemoveEventListener unregisters a listener. It reports whether the
// listener was registered.
func (d *Document) RemoveEventListener(typ EventType, id ListenerID) bool {
	return d.listeners.remove(typ, id)
}

// ListenerCount returns the number of document level listeners for typ.
func (d *Document) ListenerCount(typ EventType) int {
	return d.listeners.count(typ)
}

// Dispatch delivers ev to document level listeners.
func (d *Document) Dispatch(ev Event) {
	d.listeners.dispatch(ev)
}

// DispatchKey delivers a keydown event for key.
func (d *Document) DispatchKey(key string) {
	d.Dispatch(Event{Type: EventKeyDown, Key: key})
}

// Resize updates the viewport and delivers a resize event.
func (d *Document) Resize(s Size) {
	d.viewport = s
	d.Dispatch(Event{Type: EventResize})
}

// Viewport returns the current viewport size.
func (d *Document) Viewport() Size {
	return d.viewport
}

// SetLayout replaces the function used by Element.Measure. A nil fn restores
// EstimateLayout.
func (d *Document) SetLayout(fn LayoutFunc) {
	if fn == nil {
		fn = EstimateLayout
	}
	d.layout = fn
}

// Reflows returns how many forced layout flushes have happened.
func (d *Document) Reflows() int {
	return d.reflows
}

// HTML renders the body element.
func (d *Document) HTML() (string, error) {
	return d.body.OuterHTML()
}

func (d *Document) contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
