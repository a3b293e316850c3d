package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/consenterra/website/internal/website"
	"github.com/consenterra/website/pkg/logging"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// baseURL returns the configured canonical origin, or the request's own.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.Site.BaseURL != "" {
		return strings.TrimRight(s.cfg.Site.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", s.baseURL(r))
}

func (s *Server) sitemap(w http.ResponseWriter, r *http.Request) {
	base := s.baseURL(r)

	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range website.Pages() {
		u := sitemapURL{Loc: base + page.Path, ChangeFreq: "monthly", Priority: "0.7"}
		switch {
		case page.Path == "/":
			u.ChangeFreq, u.Priority = "weekly", "1.0"
		case page.Path == "/solutions" || strings.HasPrefix(page.Path, "/solutions/"):
			u.Priority = "0.8"
		}
		set.URLs = append(set.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		logging.L(r.Context()).Warn("sitemap encode failed", logging.Err(err))
	}
}
