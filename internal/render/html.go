package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/funnelforge/api/internal/document"
)

// PublicHTML serializes the public-mode projection into a full standalone
// page. Page-level side effects (custom CSS, custom scripts, analytics
// snippets) are each injected exactly once per view; nothing accumulates
// across views because every request rebuilds the page from scratch.
func PublicHTML(doc document.Document, name string) string {
	tree := Project(doc, ModePublic, DeviceDesktop, "")
	s := doc.Settings

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")

	title := s.MetaTitle
	if title == "" {
		title = name
	}
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))

	if s.MetaDescription != "" {
		fmt.Fprintf(&b, `<meta name="description" content="%s">`+"\n", html.EscapeString(s.MetaDescription))
	}
	if s.Favicon != "" {
		fmt.Fprintf(&b, `<link rel="icon" href="%s">`+"\n", html.EscapeString(s.Favicon))
	}
	if s.CustomCSS != "" {
		fmt.Fprintf(&b, "<style>\n%s\n</style>\n", s.CustomCSS)
	}
	if s.GoogleAnalyticsID != "" {
		writeAnalyticsSnippet(&b, s.GoogleAnalyticsID)
	}
	if s.FacebookPixelID != "" {
		writePixelSnippet(&b, s.FacebookPixelID)
	}

	b.WriteString("</head>\n<body>\n")

	for _, el := range tree.Elements {
		writeNode(&b, el.Box)
	}

	if s.ShowPoweredBy {
		b.WriteString(`<footer class="powered-by">Powered by FunnelForge</footer>` + "\n")
	}
	if s.CustomScripts != "" {
		fmt.Fprintf(&b, "%s\n", s.CustomScripts)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteString("<" + n.Tag)
	writeAttrs(b, n.Attrs)
	writeStyle(b, n.Style)
	b.WriteString(">")

	if n.Text != "" {
		if n.RawHTML {
			// Sanitized at the gateway boundary; embedded as-is.
			b.WriteString(n.Text)
		} else {
			b.WriteString(html.EscapeString(n.Text))
		}
	}

	for _, child := range n.Children {
		writeNode(b, child)
	}

	b.WriteString("</" + n.Tag + ">\n")
}

func writeAttrs(b *strings.Builder, attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, ` %s="%s"`, k, html.EscapeString(attrs[k]))
	}
}

func writeStyle(b *strings.Builder, style map[string]string) {
	if len(style) == 0 {
		return
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+style[k])
	}
	fmt.Fprintf(b, ` style="%s"`, html.EscapeString(strings.Join(pairs, ";")))
}

func writeAnalyticsSnippet(b *strings.Builder, gaID string) {
	id := html.EscapeString(gaID)
	fmt.Fprintf(b, `<script async src="https://www.googletagmanager.com/gtag/js?id=%s"></script>`+"\n", id)
	fmt.Fprintf(b, "<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','%s');</script>\n", id)
}

func writePixelSnippet(b *strings.Builder, pixelID string) {
	id := html.EscapeString(pixelID)
	fmt.Fprintf(b, "<script>!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');fbq('init','%s');fbq('track','PageView');</script>\n", id)
}
