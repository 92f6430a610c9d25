// Package adminlist holds the allow-list that grants admin on first
// identity sync. It is plain configuration handed to the services, so the
// streak rules themselves never know who the admins are.
package adminlist

import (
	"os"
	"strings"
)

// List is a set of handles and emails that are admins by configuration.
type List struct {
	handles map[string]struct{}
	emails  map[string]struct{}
}

// New builds a List from explicit handle and email slices. Entries are
// matched exactly, case-insensitively, with surrounding whitespace and a
// leading @ stripped.
func New(handles, emails []string) *List {
	l := &List{
		handles: make(map[string]struct{}),
		emails:  make(map[string]struct{}),
	}
	for _, h := range handles {
		h = normalizeHandle(h)
		if h != "" {
			l.handles[h] = struct{}{}
		}
	}
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			l.emails[e] = struct{}{}
		}
	}
	return l
}

// FromEnv reads ADMIN_HANDLES and ADMIN_EMAILS (comma-separated).
func FromEnv() *List {
	return New(
		splitList(os.Getenv("ADMIN_HANDLES")),
		splitList(os.Getenv("ADMIN_EMAILS")),
	)
}

// Contains reports whether the given handle or email is on the list.
func (l *List) Contains(handle, email string) bool {
	if _, ok := l.handles[normalizeHandle(handle)]; ok {
		return true
	}
	_, ok := l.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
