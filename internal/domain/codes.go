package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	PNRLength          = 6
	TicketNumberLength = 10
)

// ErrCodeSpaceExhausted is returned when UniqueCode keeps colliding past
// its attempt cap.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique code")

// RandomCode returns an uppercase-alphanumeric string of length n.
func RandomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("domain.RandomCode: %v", err))
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf)
}

// UniqueCode generates candidates with RandomCode and asks exists
// whether each one is already taken, regenerating on collision. Hitting
// the attempt cap means the uniqueness check itself is broken.
func UniqueCode(ctx context.Context, n int, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	const maxAttempts = 10

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := RandomCode(n)
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}
