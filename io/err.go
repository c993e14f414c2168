package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrRomSize    = errors.New(f("rom image too large"))
	ErrKeyInvalid = errors.New(f("key invalid"))
)
