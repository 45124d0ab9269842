package chesspresenter

import (
	"fmt"
	"io"
	"strings"
)

// Presenter delivers formatted text and board images without coupling to
// the command layer.
type Presenter struct {
	out       io.Writer
	saveImage func(path string, png []byte) error
}

func NewPresenter(out io.Writer, saveImage func(path string, png []byte) error) *Presenter {
	return &Presenter{
		out:       out,
		saveImage: saveImage,
	}
}

// Board prints message and, when a path is given, stores the PNG there.
func (p *Presenter) Board(message string, png []byte, path string) error {
	if p == nil {
		return nil
	}

	if text := strings.TrimSpace(message); text != "" && p.out != nil {
		if _, err := io.WriteString(p.out, message); err != nil {
			return err
		}
	}

	if len(png) > 0 && strings.TrimSpace(path) != "" && p.saveImage != nil {
		if err := p.saveImage(path, png); err != nil {
			return fmt.Errorf("save board image: %w", err)
		}
		if p.out != nil {
			_, _ = fmt.Fprintf(p.out, "Board image written to %s\n", path)
		}
	}
	return nil
}

// Text prints message as is.
func (p *Presenter) Text(message string) error {
	if p == nil || p.out == nil || message == "" {
		return nil
	}
	_, err := io.WriteString(p.out, message)
	return err
}
