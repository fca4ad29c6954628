package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// Namespaces partition cache keys by endpoint.
const (
	NamespaceQuestions  = "medical_questions"
	NamespaceSuggestion = "suggestion"
	NamespaceAnswer     = "answer"
)

// maxKeyLength fits the cache_entries primary key column with room for a Redis prefix.
const maxKeyLength = 200

// Key is a structured cache key: an endpoint namespace plus its normalised parameters.
type Key struct {
	Namespace string
	Parts     []string
}

// NewKey builds a Key from a namespace and parameter values.
func NewKey(namespace string, parts ...string) Key {
	return Key{Namespace: namespace, Parts: parts}
}

// PageKey keys a paged listing request.
func PageKey(page, limit int) Key {
	return NewKey(NamespaceQuestions, strconv.Itoa(page), strconv.Itoa(limit))
}

// SuggestionKey keys a text search; matching is case-insensitive so the text is folded.
func SuggestionKey(query string) Key {
	return NewKey(NamespaceSuggestion, NormalizeSearchText(query))
}

// AnswerKey keys an exact-match lookup; case is significant, only outer space is dropped.
func AnswerKey(query string) Key {
	return NewKey(NamespaceAnswer, strings.TrimSpace(query))
}

// String joins the namespace and query-escaped parts with ':'. Escaping keeps parts that
// contain ':' from colliding with other part boundaries. Over-long keys are hashed.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Namespace)
	for _, part := range k.Parts {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(part))
	}

	key := b.String()
	if len(key) <= maxKeyLength {
		return key
	}

	sum := sha256.Sum256([]byte(key))
	return k.Namespace + ":sha256:" + hex.EncodeToString(sum[:])
}

// NormalizeSearchText trims, lower-cases and collapses internal whitespace.
func NormalizeSearchText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
