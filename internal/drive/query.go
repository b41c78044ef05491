package drive

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// query builds a files.list q expression from AND-joined terms.
// Search syntax: https://developers.google.com/drive/api/guides/search-files
type query struct {
	terms []string
}

func newQuery() *query {
	return &query{}
}

func (q *query) named(name string) *query {
	q.terms = append(q.terms, fmt.Sprintf("name='%s'", escapeQueryValue(name)))

	return q
}

func (q *query) inParent(parentID string) *query {
	q.terms = append(q.terms, fmt.Sprintf("'%s' in parents", escapeQueryValue(parentID)))

	return q
}

func (q *query) foldersOnly() *query {
	q.terms = append(q.terms, fmt.Sprintf("mimeType='%s'", FolderMimeType))

	return q
}

func (q *query) notTrashed() *query {
	q.terms = append(q.terms, "trashed=false")

	return q
}

func (q *query) String() string {
	return strings.Join(q.terms, " and ")
}

// escapeQueryValue prepares a value for interpolation into a
// single-quoted query literal. Names are NFC-normalized first: Drive
// stores names in NFC, and a decomposed lookup for a name uploaded
// composed would silently miss.
func escapeQueryValue(v string) string {
	v = norm.NFC.String(v)
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)

	return v
}
