package langdetect

import (
	"testing"
)

func BenchmarkDetectPython(b *testing.B) {
	code := []byte(`def fib(n):
    return n if n < 2 else fib(n - 1) + fib(n - 2)`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectUnlabelled(b *testing.B) {
	code := []byte("x <- c(1, 2, 3)\nmean(x)\n")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkNormalize(b *testing.B) {
	for range b.N {
		Normalize("[ANSI]C")
	}
}
