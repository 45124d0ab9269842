package chesspresenter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPresenterBoard(t *testing.T) {
	var out bytes.Buffer
	saved := map[string][]byte{}
	p := NewPresenter(&out, func(path string, png []byte) error {
		saved[path] = png
		return nil
	})

	if err := p.Board("board text\n", []byte{0x89, 'P', 'N', 'G'}, "out.png"); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if !strings.HasPrefix(out.String(), "board text\n") || !strings.Contains(out.String(), "out.png") {
		t.Fatalf("output = %q", out.String())
	}
	if len(saved["out.png"]) != 4 {
		t.Fatalf("image not saved: %v", saved)
	}

	out.Reset()
	if err := p.Board("only text\n", []byte{1}, ""); err != nil || out.String() != "only text\n" {
		t.Fatalf("Board without path = %q, %v", out.String(), err)
	}
}

func TestPresenterSaveError(t *testing.T) {
	p := NewPresenter(nil, func(string, []byte) error { return errors.New("disk full") })
	if err := p.Board("", []byte{1}, "x.png"); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v", err)
	}
	var nilPresenter *Presenter
	if err := nilPresenter.Board("x", nil, ""); err != nil {
		t.Fatalf("nil presenter: %v", err)
	}
}
