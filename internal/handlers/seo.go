package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ideahub/internal/services"
	"ideahub/internal/utils"
)

const (
	sitemapIdeaLimit = 500
	feedBlogLimit    = 20
)

type SEOHandler struct {
	siteURL string
	ideas   *services.IdeaService
	blogs   *services.BlogService
}

func NewSEOHandler(siteURL string, ideas *services.IdeaService, blogs *services.BlogService) *SEOHandler {
	return &SEOHandler{siteURL: strings.TrimRight(siteURL, "/"), ideas: ideas, blogs: blogs}
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /dashboard/
Disallow: /api/
Disallow: /login
Disallow: /register
Disallow: /payment/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML lists the static pages, approved ideas and blogs.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	writeURL(&b, h.siteURL+"/", now, "daily", 1.0)
	writeURL(&b, h.siteURL+"/ideas", now, "hourly", 0.9)
	writeURL(&b, h.siteURL+"/blog", now, "daily", 0.8)
	writeURL(&b, h.siteURL+"/about", now, "monthly", 0.5)
	writeURL(&b, h.siteURL+"/contact", now, "monthly", 0.5)

	ideas, _, err := h.ideas.ListPublic(ctx, services.IdeaFilter{Page: 1, Limit: sitemapIdeaLimit})
	if err != nil {
		RespondError(c, err)
		return
	}
	for _, idea := range ideas {
		// 根据新旧程度调整优先级
		priority, freq := 0.6, "weekly"
		if time.Since(idea.CreatedAt) < 7*24*time.Hour {
			priority, freq = 0.8, "daily"
		}
		writeURL(&b, h.siteURL+"/ideas/"+idea.ID, idea.UpdatedAt.Format("2006-01-02"), freq, priority)
	}

	blogs, _, err := h.blogs.List(ctx, services.BlogFilter{Page: 1, Limit: utils.MaxPageSize})
	if err != nil {
		RespondError(c, err)
		return
	}
	for _, blog := range blogs {
		writeURL(&b, h.siteURL+"/blog/"+blog.ID, blog.UpdatedAt.Format("2006-01-02"), "monthly", 0.6)
	}
	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func writeURL(b *strings.Builder, loc, lastmod, freq string, priority float64) {
	fmt.Fprintf(b, `  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, html.EscapeString(loc), lastmod, freq, priority)
}

// RSSFeed 生成RSS 2.0 feed of the latest blogs
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	blogs, _, err := h.blogs.List(c.Request.Context(), services.BlogFilter{Page: 1, Limit: feedBlogLimit})
	if err != nil {
		RespondError(c, err)
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Idea Hub</title>
    <link>` + h.siteURL + `</link>
    <description>Sustainability ideas and articles from the Idea Hub community</description>
    <language>en</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + h.siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`)
	for _, blog := range blogs {
		link := h.siteURL + "/blog/" + blog.ID
		b.WriteString(`    <item>
      <title>` + html.EscapeString(blog.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + string(utils.RenderMarkdown(blog.Excerpt)) + `]]></description>
      <author>` + html.EscapeString(blog.Author.Name) + `</author>
      <category>` + html.EscapeString(blog.Category) + `</category>
      <pubDate>` + blog.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`)
	}
	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}
