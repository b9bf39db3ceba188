package urlenc

import (
	"strings"
	"testing"

	"oss.terrastruct.com/diff"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	const source = `graph TD;
  A-->B;
  A-->C;
  B-->D;
  C-->D;
`

	encoded, err := Encode(source)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}

	diff.AssertStringEq(t, source, decoded)
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	const source = "digraph G { a -> b }"

	first, err := Encode(source)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(source)
	if err != nil {
		t.Fatal(err)
	}

	diff.AssertStringEq(t, first, second)
}

func TestURLSafeAlphabet(t *testing.T) {
	t.Parallel()

	// Binary-heavy input exercises the high sextets where the standard
	// and URL-safe base64 alphabets differ.
	var b strings.Builder
	for i := 0; i < 512; i++ {
		b.WriteByte(byte(i * 7))
	}

	encoded, err := Encode(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(encoded, "+/") {
		t.Fatalf("token contains standard base64 characters: %q", encoded)
	}
}
