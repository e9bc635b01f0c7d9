// Package filter selects movie cards with expr-lang expressions.
//
// Expressions see the card's ID, Title and ImagePath directly, the whole
// card as Card, and a few case-insensitive helpers:
//
//	hasText(Title, "luca")
//	hasPoster() and not beginsWith(Title, "the")
//
// The expr operators contains, startsWith and endsWith stay available and
// compare case-sensitively: Title contains "Luca".
//
// Compiled programs are cached, and long card lists are evaluated on a
// worker pool without changing their order.
package filter
