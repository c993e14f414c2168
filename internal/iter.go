package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// BitsMSB yields the eight bits of a byte, most significant first, with
// the bit's column offset (0 for the MSB).
func BitsMSB(value uint8) iter.Seq2[int, bool] {
	return func(yield func(offset int, set bool) bool) {
		for offset := range 8 {
			if !yield(offset, (value&(0x80>>offset)) != 0) {
				return
			}
		}
	}
}
