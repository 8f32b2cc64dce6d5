// Package collection formats ordered collections, such as an actor's followers, as paged ActivityStreams
// documents.
package collection

import (
	"fmt"
	"net/url"

	"github.com/sidereusnuntius/readfed/internal/config"
)

const Context = "https://www.w3.org/ns/activitystreams"

type (
	CollectionType     string
	CollectionPageType string
)

const (
	OrderedCollection     CollectionType     = "OrderedCollection"
	OrderedCollectionPage CollectionPageType = "OrderedCollectionPage"
)

// Collection is the summary of a collection, pointing to its first page.
type Collection struct {
	Context    string         `json:"@context"`
	ID         string         `json:"id"`
	Type       CollectionType `json:"type"`
	TotalItems int            `json:"totalItems"`
	First      string         `json:"first"`
}

type CollectionPage struct {
	Context      string             `json:"@context"`
	ID           string             `json:"id"`
	Type         CollectionPageType `json:"type"`
	TotalItems   int                `json:"totalItems"`
	PartOf       string             `json:"partOf"`
	OrderedItems []string           `json:"orderedItems"`
	Next         string             `json:"next,omitempty"`
	Prev         string             `json:"prev,omitempty"`
}

// Summary returns the collection identified by id, holding items.
func Summary(id *url.URL, items []*url.URL) Collection {
	return Collection{
		Context:    Context,
		ID:         id.String(),
		Type:       OrderedCollection,
		TotalItems: len(items),
		First:      pageIRI(id, 1),
	}
}

// Page returns page number page, counted from 1, of the collection. Pages hold config.PageSize items; a page
// past the end of the collection is empty.
func Page(id *url.URL, items []*url.URL, page int) (CollectionPage, error) {
	if page < 1 {
		return CollectionPage{}, fmt.Errorf("invalid page %d", page)
	}

	total := len(items)
	start, end := total, total
	if page <= total/config.PageSize+1 {
		start = (page - 1) * config.PageSize
		end = min(start+config.PageSize, total)
	}

	ordered := make([]string, 0, end-start)
	for _, item := range items[start:end] {
		ordered = append(ordered, item.String())
	}

	p := CollectionPage{
		Context:      Context,
		ID:           pageIRI(id, page),
		Type:         OrderedCollectionPage,
		TotalItems:   total,
		PartOf:       id.String(),
		OrderedItems: ordered,
	}
	if end < total {
		p.Next = pageIRI(id, page+1)
	}
	if page > 1 {
		p.Prev = pageIRI(id, page-1)
	}
	return p, nil
}

// Format returns the summary of the collection when page is 0, and the requested page otherwise.
func Format(id *url.URL, items []*url.URL, page int) (any, error) {
	if page == 0 {
		return Summary(id, items), nil
	}
	return Page(id, items, page)
}

func pageIRI(id *url.URL, page int) string {
	u := *id
	q := u.Query()
	q.Set("page", fmt.Sprint(page))
	u.RawQuery = q.Encode()
	return u.String()
}
