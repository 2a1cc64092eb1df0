package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/random"
)

const (
	codeLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeAlphabet = codeLetters + "0123456789"
)

type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator issues reservation codes that no stored booking uses yet.
type CodeGenerator struct {
	rnd      random.Source
	checker  CodeChecker
	length   int
	attempts int
}

func NewCodeGenerator(rnd random.Source, checker CodeChecker, length, attempts int) *CodeGenerator {
	if length <= 0 {
		length = 8
	}
	if attempts <= 0 {
		attempts = 10
	}
	return &CodeGenerator{rnd: rnd, checker: checker, length: length, attempts: attempts}
}

// Generate draws candidates until one is free. After the configured number of
// collisions it gives up with domain.ErrCodeGenerationExhausted.
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.attempts; i++ {
		code := g.candidate()
		exists, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %d candidates collided", domain.ErrCodeGenerationExhausted, g.attempts)
}

// candidate always carries at least one letter, so a code never parses as a
// numeric booking id.
func (g *CodeGenerator) candidate() string {
	code := make([]byte, g.length)
	hasLetter := false
	for i := range code {
		code[i] = codeAlphabet[g.rnd.IntN(len(codeAlphabet))]
		if strings.IndexByte(codeLetters, code[i]) >= 0 {
			hasLetter = true
		}
	}
	if !hasLetter {
		code[g.rnd.IntN(len(code))] = codeLetters[g.rnd.IntN(len(codeLetters))]
	}
	return string(code)
}
