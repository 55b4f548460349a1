package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ClassHidden is the utility class that removes an element from view.
const ClassHidden = "hidden"

// Element wraps a node of a Document.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners listenerSet
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := attr(e.node, "id")
	return v
}

// SetID sets the id attribute.
func (e *Element) SetID(id string) {
	setAttr(e.node, "id", id)
}

// Attr returns the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	return attr(e.node, key)
}

// SetAttr sets the named attribute.
func (e *Element) SetAttr(key, val string) {
	setAttr(e.node, key, val)
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	v, _ := attr(e.node, "class")
	return v
}

// SetClassName replaces the class attribute.
func (e *Element) SetClassName(className string) {
	setAttr(e.node, "class", strings.Join(strings.Fields(className), " "))
}

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string {
	return strings.Fields(e.ClassName())
}

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends each class not already present.
func (e *Element) AddClass(classes ...string) {
	list := e.Classes()
	for _, c := range classes {
		if !contains(list, c) {
			list = append(list, c)
		}
	}
	setAttr(e.node, "class", strings.Join(list, " "))
}

// RemoveClass removes each class that is present.
func (e *Element) RemoveClass(classes ...string) {
	list := e.Classes()
	kept := list[:0]
	for _, c := range list {
		if !contains(classes, c) {
			kept = append(kept, c)
		}
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
}

// Show removes the hidden class.
func (e *Element) Show() {
	e.RemoveClass(ClassHidden)
}

// Hide adds the hidden class.
func (e *Element) Hide() {
	e.AddClass(ClassHidden)
}

// Hidden reports whether the hidden class is set.
func (e *Element) Hidden() bool {
	return e.HasClass(ClassHidden)
}

// Style returns an inline style property.
func (e *Element) Style(prop string) string {
	for _, d := range parseStyle(e.styleAttr()) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle sets an inline style property, keeping declaration order.
func (e *Element) SetStyle(prop, value string) {
	decls := parseStyle(e.styleAttr())
	replaced := false
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, styleDecl{prop: prop, value: value})
	}
	setAttr(e.node, "style", formatStyle(decls))
}

func (e *Element) styleAttr() string {
	v, _ := attr(e.node, "style")
	return v
}

// Measure returns the element box as computed by the document layout.
func (e *Element) Measure() Rect {
	return e.doc.layout(e, e.doc.viewport)
}

// Reflow forces a synchronous layout flush so a following class change is
// observed as a transition rather than the initial state.
func (e *Element) Reflow() {
	e.doc.reflows++
	_ = e.Measure()
}

// SetInnerHTML replaces the element's children with the parsed markup. The
// markup is used as given.
func (e *Element) SetInnerHTML(markup string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() (string, error) {
	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		s, err := render(c)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// OuterHTML renders the element and its children.
func (e *Element) OuterHTML() (string, error) {
	return render(e.node)
}

// TextContent concatenates all descendant text.
func (e *Element) TextContent() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from its parent. Removing a detached element
// does nothing.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Connected reports whether the element is attached to its document.
func (e *Element) Connected() bool {
	return e.doc.contains(e.node)
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// FirstElementChild returns the first element child, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.wrap(c)
		}
	}
	return nil
}

// QueryClass returns the first descendant carrying class, or nil.
func (e *Element) QueryClass(class string) *Element {
	var found *html.Node
	for c := e.node.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return true
			}
			if v, ok := attr(n, "class"); ok && contains(strings.Fields(v), class) {
				found = n
				return false
			}
			return true
		})
	}
	if found == nil {
		return nil
	}
	return e.doc.wrap(found)
}

// AddEventListener registers an element level listener.
func (e *Element) AddEventListener(typ EventType, fn Listener) ListenerID {
	return e.listeners.add(typ, fn)
}

// RemoveEventListener unregisters an element level listener.
func (e *Element) RemoveEventListener(typ EventType, id ListenerID) bool {
	return e.listeners.remove(typ, id)
}

// OnClick registers fn for clicks on this element.
func (e *Element) OnClick(fn func()) ListenerID {
	return e.AddEventListener(EventClick, func(Event) { fn() })
}

// Click delivers a click event to the element's listeners.
func (e *Element) Click() {
	e.listeners.dispatch(Event{Type: EventClick, Target: e})
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type styleDecl struct {
	prop  string
	value string
}

func parseStyle(s string) []styleDecl {
	var out []styleDecl
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		out = append(out, styleDecl{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []styleDecl) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}
