package openu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"course-graph/internal/domain"
	"course-graph/internal/httpx"
)

// UnknownCourseName is recorded when a course page has no title.
const UnknownCourseName = "Unknown Course"

// prerequisiteMarker is the heading text ("required prior knowledge") that
// precedes the prerequisite links on a course page.
const prerequisiteMarker = "ידע קודם דרוש"

var courseIDPattern = regexp.MustCompile(`(\d+)\.htm`)

type Client struct {
	BaseURL string
	HTTP    *httpx.Client
}

func New(baseURL string, hc *httpx.Client) *Client {
	if hc == nil {
		hc = httpx.New(0)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    hc,
	}
}

// CourseURL is the canonical page of a course id.
func (c *Client) CourseURL(id string) string {
	return fmt.Sprintf("%s/courses/%s.htm", c.BaseURL, id)
}

// ListCourseLinks returns course id -> absolute course page URL for every
// course linked from a program page.
func (c *Client) ListCourseLinks(ctx context.Context, programURL string) (map[string]string, error) {
	body, err := c.HTTP.Get(ctx, programURL)
	if err != nil {
		return nil, fmt.Errorf("openu: fetch program page: %w", err)
	}
	links, err := parseCourseLinks(bytes.NewReader(body), c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("openu: parse program page: %w", err)
	}
	return links, nil
}

// FetchCourse downloads and parses one course page.
func (c *Client) FetchCourse(ctx context.Context, id, pageURL string) (domain.Course, error) {
	body, err := c.HTTP.Get(ctx, pageURL)
	if err != nil {
		return domain.Course{}, fmt.Errorf("openu: fetch course %s: %w", id, err)
	}
	name, prereqs, err := parseCoursePage(bytes.NewReader(body))
	if err != nil {
		return domain.Course{}, fmt.Errorf("openu: parse course %s: %w", id, err)
	}
	return domain.Course{ID: id, Name: name, Prerequisites: prereqs}, nil
}

func parseCourseLinks(r io.Reader, baseURL string) (map[string]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	links := map[string]string{}
	for _, href := range anchorHrefs(doc) {
		if !strings.Contains(href, "courses/") {
			continue
		}
		id := courseIDFromHref(href)
		if id == "" {
			continue
		}
		links[id] = absolutize(base, href)
	}
	return links, nil
}

// parseCoursePage extracts the course title and the ids linked next to the
// prerequisite marker. A page without either yields UnknownCourseName and no
// prerequisites.
func parseCoursePage(r io.Reader) (string, []string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", nil, err
	}

	name := UnknownCourseName
	if h1 := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.H1 && attr(n, "id") == "course_title"
	}); h1 != nil {
		if text := strings.Join(strings.Fields(textContent(h1)), " "); text != "" {
			name = text
		}
	}

	prereqs := []string{}
	marker := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.TextNode && strings.Contains(n.Data, prerequisiteMarker)
	})
	if marker != nil {
		// The marker is often wrapped in <strong>/<span>; climb out of inline
		// wrappers until the enclosing block holds the links.
		for block := marker.Parent; block != nil; block = block.Parent {
			prereqs = courseIDs(anchorHrefs(block))
			if len(prereqs) > 0 || !inlineAtoms[block.DataAtom] {
				break
			}
		}
	}
	return name, prereqs, nil
}

var inlineAtoms = map[atom.Atom]bool{
	atom.Strong: true,
	atom.B:      true,
	atom.Span:   true,
	atom.Em:     true,
	atom.I:      true,
	atom.U:      true,
	atom.Font:   true,
}

func courseIDs(hrefs []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, href := range hrefs {
		id := courseIDFromHref(href)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func courseIDFromHref(href string) string {
	m := courseIDPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

func absolutize(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base.String() + href
	}
	return base.ResolveReference(ref).String()
}

func anchorHrefs(root *html.Node) []string {
	var out []string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := attr(n, "href"); href != "" {
				out = append(out, href)
			}
		}
		return false
	})
	return out
}

func findElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	return findNode(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && match(n)
	})
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}

// walk visits n depth-first in document order until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		return false
	})
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
