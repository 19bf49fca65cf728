// Package plant holds the domain model shared by every planttracker component:
// organ tags, pending images, backend suggestions, identification records, and
// the canonical taxonomy rank vocabulary.
package plant
