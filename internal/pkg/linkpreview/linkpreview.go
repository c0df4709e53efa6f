package linkpreview

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const fetchTimeout = 5 * time.Second

// Preview 链接元信息
type Preview struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
}

// Fetcher 抓取链接页面并解析 OpenGraph 元信息
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Preview, error)
}

type fetcherImpl struct {
	client *resty.Client
}

func NewFetcher() Fetcher {
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetHeader("User-Agent", "Mundero-LinkPreview/1.0").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &fetcherImpl{client: client}
}

func (s *fetcherImpl) Fetch(ctx context.Context, url string) (*Preview, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, errors.New("unsupported url scheme")
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		log.WarnContext(ctx, "link preview fetch failed", "url", url, "err", err)
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.New("link preview fetch returned " + resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		URL:         url,
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		ImageURL:    metaContent(doc, "og:image"),
	}

	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if preview.Description == "" {
		doc.Find("meta[name='description']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if content, ok := sel.Attr("content"); ok {
				preview.Description = strings.TrimSpace(content)
				return false
			}
			return true
		})
	}

	return preview, nil
}

func metaContent(doc *goquery.Document, property string) string {
	var value string
	doc.Find("meta[property='" + property + "']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if content, ok := sel.Attr("content"); ok {
			value = strings.TrimSpace(content)
			return false
		}
		return true
	})
	return value
}
