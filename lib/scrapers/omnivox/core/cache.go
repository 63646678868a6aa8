package core

import (
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	pageCacheSize     = 256
	pageCacheLifetime = time.Minute * 10
)

// pageCache keeps the pages fetched during a run so that walking the course
// list for documents and then for assignments doesn't fetch the same page
// twice. It only lives in memory.
type pageCache struct {
	lru *expirable.LRU[string, *goquery.Document]
}

func newPageCache() pageCache {
	return pageCache{
		lru: expirable.NewLRU[string, *goquery.Document](pageCacheSize, nil, pageCacheLifetime),
	}
}

func (c pageCache) key(link *url.URL) string {
	// NormalizeURL modifies the url it is given
	copied := *link
	return purell.NormalizeURL(
		&copied,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
}

func (c pageCache) get(link *url.URL) (*goquery.Document, bool) {
	return c.lru.Get(c.key(link))
}

func (c pageCache) set(link *url.URL, doc *goquery.Document) {
	c.lru.Add(c.key(link), doc)
}

func (c pageCache) forget(link *url.URL) {
	c.lru.Remove(c.key(link))
}

func (c pageCache) purge() {
	c.lru.Purge()
}
