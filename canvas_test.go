package framecap

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	buf, err := decodeDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "hello" {
		t.Errorf("expected %q, got %q", "hello", buf)
	}

	for _, s := range []string{
		"",
		"data:,",
		"hello",
		"data:image/png,aGVsbG8=",
		"image/png;base64,aGVsbG8=",
		"data:image/png;base64",
		"data:image/png;base64,!!!",
	} {
		if _, err := decodeDataURL(s); !errors.Is(err, ErrInvalidDataURL) {
			t.Errorf("%q: expected ErrInvalidDataURL, got %v", s, err)
		}
	}
}

func TestCanvasExpression(t *testing.T) {
	t.Parallel()

	c := &CanvasCapturer{Selector: `#scene canvas[data-name="x"]`, Type: "image/jpeg", Quality: 0.5}
	expr, err := c.expression()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(expr, "(function (selector, type, quality) {") {
		t.Errorf("expected the canvas function to be invoked, got %q", expr)
	}
	if want := `)(...["#scene canvas[data-name=\"x\"]","image/jpeg",0.5])`; !strings.HasSuffix(expr, want) {
		t.Errorf("expected expression to end with %q, got %q", want, expr)
	}
}
