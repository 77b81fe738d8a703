// Package model contains domain models passed between layers.
package model

import "fmt"

// Team identifies a robotics team. Compared by value.
type Team int64

// SubmitterID identifies the scouting client that sent a submission.
// It is stored next to raw submissions and never used in aggregation.
type SubmitterID uint32

// Kind is the wire tag of a record variant.
type Kind string

// Record variants.
const (
	KindMatch Kind = "match"
	KindPit   Kind = "pit"
)

// Record is one scouting submission. The only implementations are
// *MatchRecord and *PitRecord.
type Record interface {
	Kind() Kind
	TeamNumber() Team
	sealed()
}

// Dispatch calls onMatch or onPit depending on the variant of rec.
// Code that branches on the variant goes through here, so a new variant
// breaks every caller at compile time until it is handled.
func Dispatch[T any](rec Record, onMatch func(*MatchRecord) T, onPit func(*PitRecord) T) T {
	switch r := rec.(type) {
	case *MatchRecord:
		return onMatch(r)
	case *PitRecord:
		return onPit(r)
	default:
		panic(fmt.Sprintf("model: unexpected record type %T", rec))
	}
}

// Picture returns the image carried by a pit record. Match records carry none.
func Picture(rec Record) ([]byte, bool) {
	type picture struct {
		img []byte
		ok  bool
	}
	p := Dispatch(rec,
		func(*MatchRecord) picture { return picture{} },
		func(r *PitRecord) picture { return picture{img: []byte(r.Picture), ok: true} },
	)
	return p.img, p.ok
}
